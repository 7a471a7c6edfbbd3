package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PackageResponse - пакет каталога с разобранной ценой
type PackageResponse struct {
	Name     string          `json:"name"`
	Price    string          `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Diamonds int             `json:"diamonds"`
	Category models.Category `json:"category"`
	Note     string          `json:"note,omitempty"`
}

// PackagesHandler обрабатывает запрос GET /api/packages
func PackagesHandler(log *slog.Logger, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PackagesHandler"
		logger := log.With(slog.String("op", op))

		items := cat.All()
		resp := make([]PackageResponse, 0, len(items))
		for _, p := range items {
			amount, currency, err := catalog.Amount(p)
			if err != nil {
				logger.Error("bad package price", slog.String("package", p.Name), slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			resp = append(resp, PackageResponse{
				Name:     p.Name,
				Price:    p.Price,
				Amount:   amount,
				Currency: currency,
				Diamonds: p.Diamonds,
				Category: p.Category,
				Note:     p.Note,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}

// HealthHandler обрабатывает запрос GET /healthz
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}
}
