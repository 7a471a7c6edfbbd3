package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/topup-store/internal/service"
)

// CheckIDHandler обрабатывает запрос GET /api/check-id
func CheckIDHandler(log *slog.Logger, lookupService service.LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckIDHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		body, err := lookupService.CheckID(r.Context(), service.LookupQuery{
			Game:     q.Get("game"),
			UserID:   q.Get("userId"),
			ServerID: q.Get("serverId"),
		})
		if err != nil {
			status, msg := service.Describe(err, true, "Upstream error")
			logger.Error("lookup failed", slog.Int("status", status), slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(body); err != nil {
			logger.Error("failed to write response", slog.Any("error", err))
		}
	}
}
