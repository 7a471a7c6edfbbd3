package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errInvalidJSON = errors.New("lookup result is not valid JSON")

// LookupResult - ответ стороннего API проверки ID.
// Схема ответа не гарантирована, поэтому все поля необязательные,
// а поле неожиданного типа считается отсутствующим.
type LookupResult struct {
	ID         *Text      `json:"id"`
	Server     *Text      `json:"server"`
	Username   *Text      `json:"username"`
	Name       *Text      `json:"name"`
	Region     *Text      `json:"region"`
	ShopEvents ShopEvents `json:"shop_events"`
}

// ShopEvent - промо-событие магазина игры
type ShopEvent struct {
	Title        *Text `json:"title"`
	StockDisplay *Text `json:"stock_display"`
	Goods        Goods `json:"goods"`
}

// Good - товар внутри события
type Good struct {
	Title        *Text `json:"title"`
	SKU          *Text `json:"sku"`
	ReachedLimit Flag  `json:"reached_limit"`
}

// ParseLookupResult разбирает ответ API. Принимается как объект с полем data,
// так и сам профиль без обёртки.
func ParseLookupResult(raw []byte) (*LookupResult, error) {
	if !json.Valid(raw) {
		return nil, errInvalidJSON
	}
	if !isObject(raw) {
		return &LookupResult{}, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	body := raw
	if isObject(envelope.Data) {
		body = envelope.Data
	}

	var res LookupResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Text принимает строку, число или bool. null, объекты и массивы дают пустое значение.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*t = Text(s)
	case 'n', '{', '[':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

// String возвращает значение или пустую строку для nil
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// Flag - truthy-значение: true, ненулевое число или непустая строка
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case float64:
		*f = val != 0
	case string:
		*f = val != ""
	default:
		*f = false
	}
	return nil
}

// ShopEvents игнорирует значение, если это не массив
type ShopEvents []ShopEvent

func (e *ShopEvents) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*e = nil
		return nil
	}
	out := make(ShopEvents, 0, len(items))
	for _, item := range items {
		var evt ShopEvent
		if !isObject(item) {
			out = append(out, evt)
			continue
		}
		if err := json.Unmarshal(item, &evt); err != nil {
			continue
		}
		out = append(out, evt)
	}
	*e = out
	return nil
}

// Goods игнорирует значение, если это не массив
type Goods []Good

func (g *Goods) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*g = nil
		return nil
	}
	out := make(Goods, 0, len(items))
	for _, item := range items {
		var good Good
		if isObject(item) {
			if err := json.Unmarshal(item, &good); err != nil {
				continue
			}
		}
		out = append(out, good)
	}
	*g = out
	return nil
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
