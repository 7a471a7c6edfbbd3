package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/service"
)

type SubmitResponse struct {
	OK bool `json:"ok"`
}

// SubmitCustomerHandler обрабатывает запрос POST /api/submit-customer
func SubmitCustomerHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitCustomerHandler"
		logger := log.With(slog.String("op", op))

		// конфигурация проверяется раньше разбора тела
		if err := orderService.Ready(); err != nil {
			status, msg := service.Describe(err, false, "")
			logger.Error("order service is not ready", slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		order, err := decodeOrder(r)
		if err != nil {
			logger.Error("failed to decode request", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := orderService.Submit(r.Context(), order); err != nil {
			status, msg := service.Describe(err, false, "Failed to forward to sheet")
			logger.Error("order not forwarded", slog.Int("status", status), slog.Any("error", err))
			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(SubmitResponse{OK: true}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}

// decodeOrder читает заказ из JSON-объекта. Поля могут быть не только строками:
// числа и true переводятся в текст, null, false, 0 и "" считаются пустыми.
func decodeOrder(r *http.Request) (models.OrderPayload, error) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return models.OrderPayload{}, err
	}

	return models.OrderPayload{
		FullName: fieldText(raw["fullName"]),
		Email:    fieldText(raw["email"]),
		Game:     fieldText(raw["game"]),
		UserID:   fieldText(raw["userId"]),
		ServerID: fieldText(raw["serverId"]),
		Product:  fieldText(raw["product"]),
		Notes:    fieldText(raw["notes"]),
	}, nil
}

func fieldText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return ""
	case nil:
		return ""
	default:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(val); err != nil {
			return ""
		}
		return string(bytes.TrimSpace(buf.Bytes()))
	}
}
