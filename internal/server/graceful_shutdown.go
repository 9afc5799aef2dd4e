package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"golang.org/x/sync/errgroup"
)

type closeFunc func(ctx context.Context) error

// GracefulShutdown держит errgroup фоновых задач: первая упавшая задача
// или сигнал ОС отменяют контекст, после чего по очереди вызываются closeFuncs.
type GracefulShutdown struct {
	mu         sync.Mutex
	ctx        context.Context
	errGroup   *errgroup.Group
	closeFuncs []closeFunc
	timeout    time.Duration
	log        *logger.ZapLogger
	signals    chan os.Signal
}

func NewGracefulShutdown(parentCtx context.Context, timeout time.Duration, log *logger.ZapLogger) *GracefulShutdown {
	g, ctx := errgroup.WithContext(parentCtx)
	gfl := &GracefulShutdown{
		ctx:      ctx,
		errGroup: g,
		timeout:  timeout,
		log:      log,
		signals:  make(chan os.Signal, 1),
	}
	signal.Notify(gfl.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	gfl.Go(gfl.listenerOS)
	gfl.Go(gfl.killer)

	return gfl
}

func (g *GracefulShutdown) Go(foo func() error) {
	g.errGroup.Go(func() (err error) {
		defer func() {
			if errPanic := recover(); errPanic != nil {
				err = fmt.Errorf("panic in graceful shutdown: %v", errPanic)
				g.logErr("panic in graceful shutdown", err)
			}
		}()

		return foo()
	})
}

func (g *GracefulShutdown) Wait() error {
	err := g.errGroup.Wait()
	if err != nil && !errors.Is(err, errSignal) {
		g.logErr("error in graceful shutdown", err)
		return err
	}
	return nil
}

func (g *GracefulShutdown) MustClose(f closeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeFuncs = append(g.closeFuncs, f)
}

var errSignal = errors.New("received signal from OS")

func (g *GracefulShutdown) listenerOS() error {
	defer signal.Stop(g.signals)

	select {
	case <-g.ctx.Done():
		return nil
	case sig := <-g.signals:
		g.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "received signal from OS: " + sig.String(),
			Service: service,
		})
		return fmt.Errorf("%w: %s", errSignal, sig)
	}
}

func (g *GracefulShutdown) killer() error {
	<-g.ctx.Done()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), g.timeout)
	defer cancelTimeout()

	return g.close(ctx)
}

func (g *GracefulShutdown) close(ctx context.Context) error {
	g.mu.Lock()
	funcs := append([]closeFunc(nil), g.closeFuncs...)
	g.mu.Unlock()

	complete := make(chan []string, 1)

	go func() {
		var msgs []string
		for _, f := range funcs {
			// g.ctx к этому моменту уже отменён, закрываемся под таймаутом
			if err := f(ctx); err != nil {
				msgs = append(msgs, fmt.Sprintf("error closing: %v", err))
			}
		}
		complete <- msgs
	}()

	select {
	case msgs := <-complete:
		if len(msgs) > 0 {
			return fmt.Errorf("errors closing: %s", strings.Join(msgs, ", "))
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timeout closing after %s", g.timeout)
	}
}

func (g *GracefulShutdown) logErr(msg string, err error) {
	g.log.Log(logger.LogEntry{
		Level:   "error",
		Message: msg,
		Error:   err,
		Service: service,
	})
}
