package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/topup-store/internal/app/handlers"
	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/clients/idchecker"
	"github.com/linemk/topup-store/internal/clients/sheets"
	"github.com/linemk/topup-store/internal/config"
	"github.com/linemk/topup-store/internal/lib/logger/handlers/urllog"
	"github.com/linemk/topup-store/internal/service"
	"github.com/linemk/topup-store/internal/storage"
	"github.com/linemk/topup-store/internal/storefront"
	"github.com/linemk/topup-store/internal/web"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Lookup   service.LookupService
	Orders   service.OrderService
	Sessions *storage.SessionStore
	Renderer *web.Renderer
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	if cfg.IDChecker.APIKey == "" {
		log.Warn("RAPIDAPI_KEY is not set, /api/check-id will fail")
	}
	if cfg.Sheets.WebhookURL == "" {
		log.Warn("SHEETS_WEBHOOK_URL is not set, /api/submit-customer will fail")
	}

	checker := idchecker.NewClient(cfg.IDChecker.BaseURL, cfg.IDChecker.Host, cfg.IDChecker.APIKey, cfg.IDChecker.Timeout)
	forwarder := sheets.NewClient(cfg.Sheets.WebhookURL, cfg.Sheets.Timeout)

	renderer, err := web.NewRenderer(web.Meta{
		StoreName: cfg.Storefront.StoreName,
		HeroName:  cfg.Storefront.HeroName,
		ModelPath: cfg.Storefront.ModelPath,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		Catalog:  catalog.Default(),
		Lookup:   service.NewLookupService(log, checker, cfg.Storefront.DefaultGame),
		Orders:   service.NewOrderService(log, forwarder),
		Renderer: renderer,
	}
	a.Sessions = storage.NewSessionStore(cfg.Storefront.SessionTTL, a.newPage)

	return a, nil
}

// newPage - состояние страницы нового посетителя. Компоненты ходят в сервисы
// напрямую, минуя HTTP.
func (a *App) newPage() *storefront.Page {
	return storefront.NewPage(a.Catalog, a.Lookup, a.Orders, storefront.Options{
		Game:              a.Config.Storefront.DefaultGame,
		ConfirmationDelay: a.Config.Storefront.ConfirmationDelay,
		MaxNotices:        a.Config.Storefront.MaxNotices,
	})
}

// Router собирает все маршруты приложения
func (a *App) Router() http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(a.Logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/healthz", handlers.HealthHandler())

	// прокси к сторонним сервисам
	router.Get("/api/check-id", handlers.CheckIDHandler(a.Logger, a.Lookup))
	router.Post("/api/submit-customer", handlers.SubmitCustomerHandler(a.Logger, a.Orders))
	router.Get("/api/packages", handlers.PackagesHandler(a.Logger, a.Catalog))

	// страница магазина и её действия через SSE
	if dir := a.Config.Storefront.StaticDir; dir != "" {
		router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
	router.Get("/", handlers.IndexHandler(a.Logger, a.Sessions, a.Renderer))
	router.Route("/ui", func(r chi.Router) {
		r.Post("/select", handlers.SelectPackageHandler(a.Logger, a.Sessions, a.Renderer))
		r.Post("/check", handlers.CheckIDUIHandler(a.Logger, a.Sessions, a.Renderer, a.checkStreamBudget()))
		r.Post("/order", handlers.SubmitOrderUIHandler(a.Logger, a.Sessions, a.Renderer, a.orderStreamBudget()))
		r.Post("/notices/{id}/dismiss", handlers.DismissNoticeHandler(a.Logger, a.Sessions, a.Renderer))
	})

	return router
}

// запас на отрисовку и запись патчей поверх сетевых таймаутов
const streamSlack = 5 * time.Second

// checkStreamBudget - сколько может писаться ответ /ui/check
func (a *App) checkStreamBudget() time.Duration {
	return a.Config.IDChecker.Timeout + streamSlack
}

// orderStreamBudget - /ui/order ждёт вебхук, а потом держит поток до снятия подтверждения
func (a *App) orderStreamBudget() time.Duration {
	delay := a.Config.Storefront.ConfirmationDelay
	if delay <= 0 {
		delay = storefront.DefaultConfirmationDelay
	}
	return a.Config.Sheets.Timeout + delay + streamSlack
}

// RunSessionEviction чистит просроченные сессии, пока не отменён ctx
func (a *App) RunSessionEviction(ctx context.Context) {
	every := a.Config.Storefront.SessionTTL / 4
	if every <= 0 || every > time.Hour {
		every = time.Hour
	}
	a.Sessions.RunEviction(ctx, every)
}
