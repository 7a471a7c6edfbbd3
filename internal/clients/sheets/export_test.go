package sheets

import "time"

// WithClock подменяет часы клиента в тестах
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}
