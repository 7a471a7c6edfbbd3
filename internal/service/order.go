package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/lib/validate"
)

// WebhookForwarder - клиент вебхука таблицы заказов
type WebhookForwarder interface {
	Configured() bool
	Forward(ctx context.Context, order models.OrderPayload) error
}

type OrderService interface {
	Ready() error
	Submit(ctx context.Context, order models.OrderPayload) error
}

type orderService struct {
	log       *slog.Logger
	forwarder WebhookForwarder
}

func NewOrderService(log *slog.Logger, forwarder WebhookForwarder) OrderService {
	return &orderService{
		log:       log,
		forwarder: forwarder,
	}
}

// Ready возвращает *ConfigError, если адрес вебхука не задан
func (s *orderService) Ready() error {
	if !s.forwarder.Configured() {
		return &ConfigError{Key: "SHEETS_WEBHOOK_URL"}
	}
	return nil
}

// Submit проверяет заказ и пересылает его в вебхук.
// Повторные отправки не дедуплицируются.
func (s *orderService) Submit(ctx context.Context, order models.OrderPayload) error {
	const op = "service.OrderService.Submit"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("product", order.Product),
		slog.String("userID", order.UserID),
	)

	if err := s.Ready(); err != nil {
		logger.Error("sheets webhook is not configured")
		return err
	}

	missing, err := validate.MissingFields(order)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(missing) > 0 {
		logger.Warn("order rejected", slog.Any("missing", missing))
		return &ValidationError{Field: missing[0], Message: "Missing field: " + missing[0]}
	}

	logger.Info("forwarding order")
	if err := s.forwarder.Forward(ctx, order); err != nil {
		logger.Error("failed to forward order", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order forwarded")
	return nil
}
