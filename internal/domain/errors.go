package domain

import (
	"errors"
	"fmt"
)

// Kind: класс ошибки, по нему delivery выбирает HTTP статус
type Kind int

const (
	KindValidation Kind = iota + 1
	KindDecryption
	KindNotFound
	KindCodec
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDecryption:
		return "decryption"
	case KindNotFound:
		return "not_found"
	case KindCodec:
		return "codec"
	default:
		return "unknown"
	}
}

// Error несёт сообщение для клиента и исходную причину для лога.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	// сообщение часто и есть текст причины, не повторяем его дважды
	if e.Err == nil || e.Err.Error() == e.Message {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func DecryptionError(msg string, err error) *Error {
	return &Error{Kind: KindDecryption, Message: msg, Err: err}
}

func NotFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func CodecError(msg string, err error) *Error {
	return &Error{Kind: KindCodec, Message: msg, Err: err}
}

// KindOf возвращает 0, если err не *Error
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// MessageOf: текст для клиента; для чужих ошибок отдаём fallback
func MessageOf(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
