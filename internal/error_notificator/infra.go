package error_notificator

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
)

const service = "pdf_tools"

type RequestIDFunc func(ctx context.Context) string

// Infra пишет полную ошибку в zap; клиенту уходит только короткое сообщение
type Infra struct {
	log       *logger.ZapLogger
	requestID RequestIDFunc
}

func NewInfra(log *logger.ZapLogger, requestID RequestIDFunc) *Infra {
	return &Infra{log: log, requestID: requestID}
}

func (i *Infra) Notify(ctx context.Context, op string, err error, details string) error {
	msg := fmt.Sprintf("[%s] %s", op, details)
	if i.requestID != nil {
		if id := i.requestID(ctx); id != "" {
			msg = fmt.Sprintf("[%s] request_id=%s %s", op, id, details)
		}
	}

	i.log.Log(logger.LogEntry{
		Level:   "error",
		Message: msg,
		Error:   err,
		Service: service,
	})
	return nil
}
