package idchecker

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linemk/topup-store/internal/clients/upstream"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "https://id-game-checker.p.rapidapi.com"
	DefaultHost    = "id-game-checker.p.rapidapi.com"

	headerKey  = "x-rapidapi-key"
	headerHost = "x-rapidapi-host"
)

// Client ходит в сторонний API проверки игровых ID
type Client struct {
	baseURL string
	host    string
	apiKey  string
	http    upstream.Doer
}

// NewClient создаёт клиент. Пустой apiKey допустим: проверка конфигурации выполняется на уровне сервиса.
func NewClient(baseURL, host, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		host:    host,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured сообщает, задан ли ключ API
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// URL собирает адрес запроса: <base>/<game>/<userId>/<serverId>
func (c *Client) URL(game, userID, serverID string) string {
	return c.baseURL + "/" + url.PathEscape(game) + "/" + url.PathEscape(userID) + "/" + url.PathEscape(serverID)
}

// Lookup выполняет один GET-запрос к API и возвращает тело ответа как есть.
func (c *Client) Lookup(ctx context.Context, game, userID, serverID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(game, userID, serverID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "idchecker: build request")
	}
	req.Header.Set(headerKey, c.apiKey)
	req.Header.Set(headerHost, c.host)

	resp, err := upstream.Do(c.http, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
