package models

// Category группа пакетов на витрине
type Category string

const (
	CategoryPass     Category = "pass"
	CategoryDiamonds Category = "diamonds"
)

// Package представляет пакет пополнения, доступный для покупки.
// Идентичность пакета - его название.
type Package struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"` // цена только для отображения, например "₹133"
	Diamonds int      `json:"diamonds"`
	Category Category `json:"category"`
	Note     string   `json:"note,omitempty"`
}
