package error_notificator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	op      string
	err     error
	details string
}

func (r *recorder) Notify(_ context.Context, op string, err error, details string) error {
	r.op, r.err, r.details = op, err, details
	return nil
}

func TestServiceDelegates(t *testing.T) {
	rec := &recorder{}
	svc := NewService(rec)

	cause := errors.New("pdftoppm: exit status 1")
	assert.NoError(t, svc.Notify(context.Background(), "pdf-to-jpg", cause, "file=scan.pdf"))

	assert.Equal(t, "pdf-to-jpg", rec.op)
	assert.Equal(t, cause, rec.err)
	assert.Equal(t, "file=scan.pdf", rec.details)
}
