package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/linemk/topup-store/internal/clients/idchecker"
	"github.com/linemk/topup-store/internal/config"
	"github.com/linemk/topup-store/internal/lib/logger"
	"github.com/linemk/topup-store/internal/service"
	"github.com/pkg/errors"
)

const defaultConfigPath = "./config/local.yaml"

// idcheck выполняет одну проверку игрового ID с ключом из окружения
// и печатает ответ API. Нужен для проверки ключа и формата ответа без запуска сервера.
func main() {
	var q service.LookupQuery
	flag.StringVar(&q.UserID, "user", "", "player user id")
	flag.StringVar(&q.ServerID, "server", "", "player server id")
	flag.StringVar(&q.Game, "game", "", "game slug (default from config)")

	_ = godotenv.Load()
	// без -config и CONFIG_PATH берём локальный конфиг
	_ = os.Setenv("CONFIG_PATH", GetEnv("CONFIG_PATH", defaultConfigPath))
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	client := idchecker.NewClient(cfg.IDChecker.BaseURL, cfg.IDChecker.Host, cfg.IDChecker.APIKey, cfg.IDChecker.Timeout)
	svc := service.NewLookupService(log, client, cfg.Storefront.DefaultGame)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.IDChecker.Timeout+time.Second)
	defer cancel()

	if err := run(ctx, svc, q, os.Stdout); err != nil {
		status, msg := service.Describe(err, true, "Upstream error")
		log.Error("lookup failed", slog.Int("status", status), slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "%d %s\n", status, msg)
		os.Exit(1)
	}
}

// run делает запрос и печатает ответ с отступами
func run(ctx context.Context, svc service.LookupService, q service.LookupQuery, out io.Writer) error {
	body, err := svc.CheckID(ctx, q)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return errors.Wrap(err, "format response")
	}
	buf.WriteByte('\n')

	if _, err := buf.WriteTo(out); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := lookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Обертка для os.LookupEnv, чтобы можно было легко подменить в тестах
var lookupEnv = os.LookupEnv
