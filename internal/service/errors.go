package service

import (
	"errors"
	"net/http"

	"github.com/linemk/topup-store/internal/clients/upstream"
)

// ValidationError - клиент не передал обязательное поле
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConfigError - в окружении не задано обязательное значение
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return e.Key + " not configured"
}

// Describe переводит ошибку в HTTP-статус и текст для клиента.
// relayStatus - вернуть статус стороннего сервиса как есть, иначе 502.
// fallback используется, если сторонний сервис вернул пустое тело.
func Describe(err error, relayStatus bool, fallback string) (int, string) {
	var verr *ValidationError
	var cerr *ConfigError
	var serr *upstream.StatusError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.As(err, &cerr):
		return http.StatusInternalServerError, cerr.Error()
	case errors.As(err, &serr):
		msg := serr.Body
		if msg == "" {
			msg = fallback
		}
		if relayStatus {
			return serr.Code, msg
		}
		return http.StatusBadGateway, msg
	case errors.Is(err, upstream.ErrTimeout):
		return http.StatusGatewayTimeout, upstream.ErrTimeout.Error()
	case errors.Is(err, upstream.ErrUnavailable):
		return http.StatusBadGateway, err.Error()
	default:
		msg := err.Error()
		if msg == "" {
			msg = "Unexpected error"
		}
		return http.StatusInternalServerError, msg
	}
}

// UserMessage - текст ошибки для показа покупателю. Цепочка op и детали
// транспорта наружу не попадают: для неизвестных ошибок возвращается generic.
// fallback используется, если сторонний сервис вернул пустое тело.
func UserMessage(err error, fallback, generic string) string {
	var verr *ValidationError
	var cerr *ConfigError
	var serr *upstream.StatusError

	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &cerr):
		return cerr.Error()
	case errors.As(err, &serr):
		if serr.Body == "" {
			return fallback
		}
		return serr.Body
	case errors.Is(err, upstream.ErrTimeout):
		return upstream.ErrTimeout.Error()
	case errors.Is(err, upstream.ErrUnavailable):
		return upstream.ErrUnavailable.Error()
	default:
		return generic
	}
}
