package storefront

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/lib/validate"
	"github.com/linemk/topup-store/internal/service"
)

type SubmitStatus string

const (
	SubmitIdle       SubmitStatus = "idle"
	SubmitSubmitting SubmitStatus = "submitting"
	SubmitSubmitted  SubmitStatus = "submitted"
)

// DefaultConfirmationDelay - сколько показывается подтверждение заказа
const DefaultConfirmationDelay = 5 * time.Second

var (
	ErrNoPackage = errors.New("no package selected")
	ErrBusy      = errors.New("order is being submitted")
)

// MissingFieldsError - не заполнены обязательные поля формы
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Submitter - прокси отправки заказа
type Submitter interface {
	Submit(ctx context.Context, order models.OrderPayload) error
}

// OrderInput - поля, которые покупатель заполняет сам
type OrderInput struct {
	FullName string
	Email    string
	UserID   string
	ServerID string
	Notes    string
}

type OrderView struct {
	Status    SubmitStatus
	Draft     models.OrderPayload
	Package   *models.Package
	CanSubmit bool
}

// OrderForm - черновик заказа и статус отправки
type OrderForm struct {
	submitter   Submitter
	defaults    models.OrderPayload
	revertAfter time.Duration

	mu       sync.Mutex
	draft    models.OrderPayload
	status   SubmitStatus
	pkg      *models.Package
	gen      uint64
	timer    *time.Timer
	reverted chan struct{}
}

func NewOrderForm(game string, submitter Submitter, revertAfter time.Duration) *OrderForm {
	if game == "" {
		game = service.DefaultGame
	}
	if revertAfter <= 0 {
		revertAfter = DefaultConfirmationDelay
	}
	defaults := models.OrderPayload{Game: game}
	return &OrderForm{
		submitter:   submitter,
		defaults:    defaults,
		revertAfter: revertAfter,
		draft:       defaults,
		status:      SubmitIdle,
	}
}

// ReconcilePackage вызывается при смене выбранного пакета:
// product перезаписывается, показанное подтверждение снимается.
func (f *OrderForm) ReconcilePackage(p models.Package) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pkg := p
	f.pkg = &pkg
	f.draft.Product = p.Name
	if f.status == SubmitSubmitted {
		f.clearSubmittedLocked()
	}
}

// ReconcileVerified вызывается после успешной проверки ID:
// userId и serverId перезаписываются, даже если их правили вручную.
func (f *OrderForm) ReconcileVerified(u models.VerifiedUser) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft.UserID = u.UserID
	f.draft.ServerID = u.ServerID
}

// Edit применяет ручной ввод покупателя
func (f *OrderForm) Edit(in OrderInput) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft.FullName = in.FullName
	f.draft.Email = in.Email
	f.draft.UserID = in.UserID
	f.draft.ServerID = in.ServerID
	f.draft.Notes = in.Notes
}

// Submit отправляет черновик. Без выбранного пакета или с пустыми обязательными
// полями сетевой вызов не выполняется.
func (f *OrderForm) Submit(ctx context.Context) error {
	return f.submit(ctx, nil)
}

// submit вызывает started после перехода в submitting, до сетевого вызова
func (f *OrderForm) submit(ctx context.Context, started func()) error {
	f.mu.Lock()
	if f.pkg == nil {
		f.mu.Unlock()
		return ErrNoPackage
	}
	if f.status != SubmitIdle {
		f.mu.Unlock()
		return ErrBusy
	}
	missing, err := validate.MissingFields(f.draft)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	if len(missing) > 0 {
		f.mu.Unlock()
		return &MissingFieldsError{Fields: missing}
	}
	f.status = SubmitSubmitting
	order := f.draft
	f.mu.Unlock()

	if started != nil {
		started()
	}

	err = f.submitter.Submit(ctx, order)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.status = SubmitIdle
		return err
	}

	f.status = SubmitSubmitted
	f.draft = f.defaults
	f.gen++
	gen := f.gen
	f.reverted = make(chan struct{})
	f.timer = time.AfterFunc(f.revertAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen == gen && f.status == SubmitSubmitted {
			f.clearSubmittedLocked()
		}
	})
	return nil
}

func (f *OrderForm) clearSubmittedLocked() {
	f.status = SubmitIdle
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.reverted != nil {
		close(f.reverted)
		f.reverted = nil
	}
}

// Reverted закрывается, когда подтверждение снято. Если подтверждения нет, канал уже закрыт.
func (f *OrderForm) Reverted() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.reverted == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return f.reverted
}

// RevertAfter - задержка автоматического снятия подтверждения
func (f *OrderForm) RevertAfter() time.Duration {
	return f.revertAfter
}

func (f *OrderForm) View() OrderView {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := OrderView{
		Status:    f.status,
		Draft:     f.draft,
		CanSubmit: f.pkg != nil && f.status == SubmitIdle,
	}
	if f.pkg != nil {
		p := *f.pkg
		v.Package = &p
	}
	return v
}
