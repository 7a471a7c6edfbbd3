package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/linemk/topup-store/internal/clients/upstream"
	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/pkg/errors"
)

// TimestampLayout - ISO-8601 в UTC с миллисекундами, как у JavaScript toISOString
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Client пересылает заказы в вебхук таблицы
type Client struct {
	webhookURL string
	http       upstream.Doer
	now        func() time.Time
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Configured сообщает, задан ли адрес вебхука
func (c *Client) Configured() bool {
	return c.webhookURL != ""
}

// Forward добавляет к заказу метку времени и отправляет его одним POST-запросом.
func (c *Client) Forward(ctx context.Context, order models.OrderPayload) error {
	body, err := json.Marshal(models.ForwardedOrder{
		Timestamp:    c.now().UTC().Format(TimestampLayout),
		OrderPayload: order,
	})
	if err != nil {
		return errors.Wrap(err, "sheets: marshal order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "sheets: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = upstream.Do(c.http, req)
	return err
}
