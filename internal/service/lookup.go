package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linemk/topup-store/internal/lib/validate"
)

const DefaultGame = "mobile-legends"

// LookupQuery - параметры проверки игрового ID
type LookupQuery struct {
	Game     string `json:"game"`
	UserID   string `json:"userId" validate:"required"`
	ServerID string `json:"serverId" validate:"required"`
}

// IDChecker - клиент стороннего API проверки ID
type IDChecker interface {
	Configured() bool
	Lookup(ctx context.Context, game, userID, serverID string) ([]byte, error)
}

type LookupService interface {
	CheckID(ctx context.Context, q LookupQuery) (json.RawMessage, error)
}

type lookupService struct {
	log         *slog.Logger
	checker     IDChecker
	defaultGame string
}

func NewLookupService(log *slog.Logger, checker IDChecker, defaultGame string) LookupService {
	if defaultGame == "" {
		defaultGame = DefaultGame
	}
	return &lookupService{
		log:         log,
		checker:     checker,
		defaultGame: defaultGame,
	}
}

// CheckID проверяет параметры и делает ровно один вызов стороннего API.
// Тело успешного ответа возвращается без изменений.
func (s *lookupService) CheckID(ctx context.Context, q LookupQuery) (json.RawMessage, error) {
	const op = "service.LookupService.CheckID"
	if q.Game == "" {
		q.Game = s.defaultGame
	}
	logger := s.log.With(
		slog.String("op", op),
		slog.String("game", q.Game),
		slog.String("userID", q.UserID),
		slog.String("serverID", q.ServerID),
	)

	if missing, err := validate.MissingFields(q); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if len(missing) > 0 {
		logger.Warn("lookup rejected", slog.Any("missing", missing))
		return nil, &ValidationError{Field: missing[0], Message: "Missing userId or serverId"}
	}

	if !s.checker.Configured() {
		logger.Error("id checker credential is not configured")
		return nil, &ConfigError{Key: "RAPIDAPI_KEY"}
	}

	logger.Info("checking player id")
	body, err := s.checker.Lookup(ctx, q.Game, q.UserID, q.ServerID)
	if err != nil {
		logger.Error("lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !json.Valid(body) {
		logger.Error("upstream returned invalid JSON", slog.Int("size", len(body)))
		return nil, fmt.Errorf("%s: upstream returned invalid JSON", op)
	}

	logger.Info("lookup completed")
	return json.RawMessage(body), nil
}
