package storefront_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/service"
)

// fakeLookup возвращает заранее заданный ответ
type fakeLookup struct {
	mu    sync.Mutex
	body  string
	err   error
	calls []service.LookupQuery
}

func (f *fakeLookup) CheckID(ctx context.Context, q service.LookupQuery) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// gatedLookup отвечает только когда тест отпустит соответствующий запрос
type gatedLookup struct {
	started chan string
	release map[string]chan string
}

func newGatedLookup(userIDs ...string) *gatedLookup {
	g := &gatedLookup{started: make(chan string, len(userIDs)), release: make(map[string]chan string)}
	for _, id := range userIDs {
		g.release[id] = make(chan string, 1)
	}
	return g
}

func (g *gatedLookup) CheckID(ctx context.Context, q service.LookupQuery) (json.RawMessage, error) {
	g.started <- q.UserID
	body := <-g.release[q.UserID]
	return json.RawMessage(body), nil
}

// fakeSubmitter запоминает отправленные заказы
type fakeSubmitter struct {
	mu     sync.Mutex
	err    error
	orders []models.OrderPayload
}

func (f *fakeSubmitter) Submit(ctx context.Context, order models.OrderPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
	return f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}
