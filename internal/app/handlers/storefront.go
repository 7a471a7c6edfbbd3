package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/topup-store/internal/storefront"
	"github.com/linemk/topup-store/internal/web"
	"github.com/starfederation/datastar-go/datastar"
)

const SessionCookie = "topup_session"

// Sessions - хранилище состояний страниц посетителей
type Sessions interface {
	GetOrCreate(id string) (string, *storefront.Page)
}

// Renderer отрисовывает страницу и фрагменты для SSE
type Renderer interface {
	Page(w io.Writer, v storefront.View) error
	Fragment(name string, v storefront.View) (string, error)
}

type checkSignals struct {
	UserID   string `json:"userId"`
	ServerID string `json:"serverId"`
}

type orderSignals struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	OrderUserID   string `json:"orderUserId"`
	OrderServerID string `json:"orderServerId"`
	Notes         string `json:"notes"`
}

// pageFor находит страницу посетителя; если сессии нет или она истекла, заводит новую
func pageFor(w http.ResponseWriter, r *http.Request, sessions Sessions) *storefront.Page {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	newID, page := sessions.GetOrCreate(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return page
}

func patchFragments(sse *datastar.ServerSentEventGenerator, rnd Renderer, v storefront.View, names ...string) error {
	for _, name := range names {
		html, err := rnd.Fragment(name, v)
		if err != nil {
			return err
		}
		if err := sse.PatchElements(html); err != nil {
			return err
		}
	}
	return nil
}

// extendWriteDeadline переносит дедлайн записи сервера для долгого SSE-ответа.
// budget <= 0 снимает дедлайн.
func extendWriteDeadline(w http.ResponseWriter, budget time.Duration) error {
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}
	err := http.NewResponseController(w).SetWriteDeadline(deadline)
	if errors.Is(err, http.ErrNotSupported) {
		return nil
	}
	return err
}

// IndexHandler обрабатывает запрос GET /
func IndexHandler(log *slog.Logger, sessions Sessions, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.IndexHandler"
		logger := log.With(slog.String("op", op))

		page := pageFor(w, r, sessions)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := rnd.Page(w, page.Snapshot()); err != nil {
			logger.Error("failed to render page", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}

// SelectPackageHandler обрабатывает запрос POST /ui/select?name=
func SelectPackageHandler(log *slog.Logger, sessions Sessions, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SelectPackageHandler"
		logger := log.With(slog.String("op", op))

		page := pageFor(w, r, sessions)
		name := r.URL.Query().Get("name")
		if err := page.SelectPackage(name); err != nil {
			logger.Warn("package not selected", slog.String("name", name), slog.Any("error", err))
		}

		sse := datastar.NewSSE(w, r)
		if err := patchFragments(sse, rnd, page.Snapshot(),
			web.FragmentSelector, web.FragmentCheckout, web.FragmentNotices,
		); err != nil {
			logger.Error("failed to patch page", slog.Any("error", err))
		}
	}
}

// CheckIDUIHandler обрабатывает запрос POST /ui/check.
// streamBudget - сколько может писаться ответ: таймаут проверки плюс запас.
func CheckIDUIHandler(log *slog.Logger, sessions Sessions, rnd Renderer, streamBudget time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckIDUIHandler"
		logger := log.With(slog.String("op", op))

		var signals checkSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			logger.Error("failed to read signals", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		page := pageFor(w, r, sessions)
		if err := extendWriteDeadline(w, streamBudget); err != nil {
			logger.Warn("failed to extend write deadline", slog.Any("error", err))
		}
		sse := datastar.NewSSE(w, r)

		// состояние checking уходит клиенту до сетевого вызова
		checkErr := page.CheckIDWithProgress(r.Context(), signals.UserID, signals.ServerID, func() {
			if err := patchFragments(sse, rnd, page.Snapshot(), web.FragmentChecker); err != nil {
				logger.Warn("failed to patch in-flight state", slog.Any("error", err))
			}
		})
		if checkErr != nil && !errors.Is(checkErr, storefront.ErrStale) {
			logger.Info("id check failed", slog.Any("error", checkErr))
		}

		v := page.Snapshot()
		if err := patchFragments(sse, rnd, v,
			web.FragmentChecker, web.FragmentCheckout, web.FragmentNotices,
		); err != nil {
			logger.Error("failed to patch page", slog.Any("error", err))
			return
		}
		if checkErr == nil {
			if err := sse.MarshalAndPatchSignals(map[string]string{
				"orderUserId":   v.Form.Draft.UserID,
				"orderServerId": v.Form.Draft.ServerID,
			}); err != nil {
				logger.Error("failed to patch signals", slog.Any("error", err))
			}
		}
	}
}

// SubmitOrderUIHandler обрабатывает запрос POST /ui/order. После успешной
// отправки поток держится открытым, пока подтверждение не будет снято.
// streamBudget должен покрывать таймаут вебхука и задержку подтверждения.
func SubmitOrderUIHandler(log *slog.Logger, sessions Sessions, rnd Renderer, streamBudget time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitOrderUIHandler"
		logger := log.With(slog.String("op", op))

		var signals orderSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			logger.Error("failed to read signals", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		page := pageFor(w, r, sessions)
		if err := extendWriteDeadline(w, streamBudget); err != nil {
			logger.Warn("failed to extend write deadline", slog.Any("error", err))
		}
		sse := datastar.NewSSE(w, r)

		in := storefront.OrderInput{
			FullName: signals.FullName,
			Email:    signals.Email,
			UserID:   signals.OrderUserID,
			ServerID: signals.OrderServerID,
			Notes:    signals.Notes,
		}
		// кнопка блокируется у клиента до отправки в вебхук
		submitErr := page.SubmitOrderWithProgress(r.Context(), in, func() {
			if err := patchFragments(sse, rnd, page.Snapshot(), web.FragmentCheckout); err != nil {
				logger.Warn("failed to patch in-flight state", slog.Any("error", err))
			}
		})
		reverted := page.Form.Reverted()

		if err := patchFragments(sse, rnd, page.Snapshot(), web.FragmentCheckout, web.FragmentNotices); err != nil {
			logger.Error("failed to patch page", slog.Any("error", err))
			return
		}
		if submitErr != nil {
			logger.Info("order not submitted", slog.Any("error", submitErr))
			return
		}

		if err := sse.MarshalAndPatchSignals(orderSignals{}); err != nil {
			logger.Error("failed to reset signals", slog.Any("error", err))
			return
		}

		timeout := time.NewTimer(page.Form.RevertAfter() + time.Second)
		defer timeout.Stop()

		select {
		case <-reverted:
		case <-timeout.C:
		case <-r.Context().Done():
			return
		}

		if err := patchFragments(sse, rnd, page.Snapshot(), web.FragmentCheckout); err != nil {
			logger.Error("failed to patch page", slog.Any("error", err))
		}
	}
}

// DismissNoticeHandler обрабатывает запрос POST /ui/notices/{id}/dismiss
func DismissNoticeHandler(log *slog.Logger, sessions Sessions, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DismissNoticeHandler"
		logger := log.With(slog.String("op", op))

		page := pageFor(w, r, sessions)
		page.DismissNotice(chi.URLParam(r, "id"))

		sse := datastar.NewSSE(w, r)
		if err := patchFragments(sse, rnd, page.Snapshot(), web.FragmentNotices); err != nil {
			logger.Error("failed to patch page", slog.Any("error", err))
		}
	}
}
