package storefront

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/service"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
)

const defaultMaxNotices = 5

// Notice - всплывающее сообщение, которое пользователь может закрыть
type Notice struct {
	ID      string
	Kind    NoticeKind
	Title   string
	Message string
}

// подписи полей формы для сообщения о незаполненных полях
var fieldLabels = map[string]string{
	"fullName": "Full Name",
	"email":    "Email",
	"game":     "Game",
	"userId":   "User ID",
	"serverId": "Server ID",
	"product":  "Package",
}

type Options struct {
	Game              string
	ConfirmationDelay time.Duration
	MaxNotices        int
}

// View - снимок состояния страницы для отрисовки
type View struct {
	Selected *models.Package
	Verified *models.VerifiedUser
	Notices  []Notice
	Selector SelectorView
	Checker  CheckerView
	Form     OrderView
}

// Page владеет общим состоянием страницы (выбранный пакет и подтверждённый игрок)
// и связывает между собой витрину, проверку ID и форму заказа.
type Page struct {
	Selector *Selector
	Checker  *Checker
	Form     *OrderForm

	maxNotices int

	mu       sync.Mutex
	selected *models.Package
	verified *models.VerifiedUser
	notices  []Notice
}

func NewPage(cat *catalog.Catalog, lookup Lookup, submitter Submitter, opts Options) *Page {
	if opts.MaxNotices <= 0 {
		opts.MaxNotices = defaultMaxNotices
	}
	p := &Page{maxNotices: opts.MaxNotices}
	p.Form = NewOrderForm(opts.Game, submitter, opts.ConfirmationDelay)
	p.Selector = NewSelector(cat, p.packageSelected)
	p.Checker = NewChecker(opts.Game, lookup, p.userVerified)
	return p
}

func (p *Page) packageSelected(pkg models.Package) {
	p.mu.Lock()
	p.selected = &pkg
	p.mu.Unlock()

	p.Form.ReconcilePackage(pkg)
}

func (p *Page) userVerified(u models.VerifiedUser) {
	p.mu.Lock()
	p.verified = &u
	p.mu.Unlock()

	p.Form.ReconcileVerified(u)
}

// SelectPackage выбирает пакет по названию
func (p *Page) SelectPackage(name string) error {
	if _, err := p.Selector.Select(name); err != nil {
		p.notify(NoticeError, "Unknown package", "The selected package is not available.")
		return err
	}
	return nil
}

// CheckID запускает проверку игрового ID и превращает результат в уведомление
func (p *Page) CheckID(ctx context.Context, userID, serverID string) error {
	return p.CheckIDWithProgress(ctx, userID, serverID, nil)
}

// CheckIDWithProgress - как CheckID, но inFlight вызывается, когда проверка
// перешла в checking и запрос ещё не ушёл. Отмена ctx вызов не прерывает:
// его ограничивает таймаут клиента.
func (p *Page) CheckIDWithProgress(ctx context.Context, userID, serverID string, inFlight func()) error {
	_, err := p.Checker.check(context.WithoutCancel(ctx), userID, serverID, inFlight)
	switch {
	case err == nil:
		p.notify(NoticeSuccess, "Lookup complete", "Fetched player info successfully.")
	case errors.Is(err, ErrStale):
		return nil
	case errors.Is(err, ErrMissingIDs):
		p.notify(NoticeError, "Missing info", "Please enter both ID and Server.")
	default:
		p.notify(NoticeError, "Error", service.UserMessage(err, "Upstream error", "Check failed"))
	}
	return err
}

// SubmitOrder применяет ввод покупателя и отправляет заказ
func (p *Page) SubmitOrder(ctx context.Context, in OrderInput) error {
	return p.SubmitOrderWithProgress(ctx, in, nil)
}

// SubmitOrderWithProgress - как SubmitOrder, но inFlight вызывается, когда форма
// перешла в submitting. Отмена ctx уже начатую отправку не прерывает, иначе
// принятый вебхуком заказ был бы показан как неотправленный.
func (p *Page) SubmitOrderWithProgress(ctx context.Context, in OrderInput, inFlight func()) error {
	p.Form.Edit(in)
	err := p.Form.submit(context.WithoutCancel(ctx), inFlight)

	var missing *MissingFieldsError
	switch {
	case err == nil:
		p.notify(NoticeSuccess, "Order Submitted!", "Your order will be processed within 12 hours.")
	case errors.Is(err, ErrNoPackage):
		p.notify(NoticeWarning, "No package selected", "Please select a package from the available options above.")
	case errors.Is(err, ErrBusy):
	case errors.As(err, &missing):
		labels := make([]string, 0, len(missing.Fields))
		for _, f := range missing.Fields {
			labels = append(labels, fieldLabels[f])
		}
		p.notify(NoticeError, "Missing fields", "Please fill in all required fields: "+strings.Join(labels, ", ")+".")
	default:
		p.notify(NoticeError, "Error", service.UserMessage(err, "Failed to forward to sheet", "Submission failed"))
	}
	return err
}

// DismissNotice убирает уведомление
func (p *Page) DismissNotice(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, n := range p.notices {
		if n.ID == id {
			p.notices = append(p.notices[:i], p.notices[i+1:]...)
			return
		}
	}
}

func (p *Page) notify(kind NoticeKind, title, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.notices = append(p.notices, Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: msg,
	})
	if len(p.notices) > p.maxNotices {
		p.notices = p.notices[len(p.notices)-p.maxNotices:]
	}
}

// Snapshot собирает состояние всех компонентов. Блокировки компонентов берутся по очереди.
func (p *Page) Snapshot() View {
	p.mu.Lock()
	v := View{Notices: append([]Notice(nil), p.notices...)}
	if p.selected != nil {
		s := *p.selected
		v.Selected = &s
	}
	if p.verified != nil {
		u := *p.verified
		v.Verified = &u
	}
	p.mu.Unlock()

	v.Selector = p.Selector.View()
	v.Checker = p.Checker.View()
	v.Form = p.Form.View()
	return v
}
