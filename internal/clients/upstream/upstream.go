// Package upstream выполняет исходящие HTTP-вызовы к сторонним сервисам
// и приводит ошибки транспорта к общим видам.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

var (
	// ErrTimeout - сторонний сервис не ответил за отведённое время
	ErrTimeout = errors.New("upstream timeout")
	// ErrUnavailable - до стороннего сервиса не удалось достучаться
	ErrUnavailable = errors.New("upstream unavailable")
)

// максимальный размер тела ответа, который мы читаем
const maxBodySize = 4 << 20

// StatusError - сторонний сервис ответил статусом не из 2xx
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Code)
	}
	return e.Body
}

// Response - успешный ответ стороннего сервиса
type Response struct {
	Code int
	Body []byte
}

// Doer - то, что умеет выполнять HTTP-запрос (обычно *http.Client)
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Do выполняет запрос и читает тело ответа.
// Ответ не из 2xx возвращается как *StatusError вместе с телом.
func Do(client Doer, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classify(req.Context(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return &Response{Code: resp.StatusCode, Body: body}, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
