package error_notificator

import "context"

type Notificator interface {
	// Notify: сообщает об ошибке обработки в операционный лог
	Notify(ctx context.Context, op string, err error, details string) error
}
