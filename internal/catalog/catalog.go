package catalog

import (
	"errors"
	"strings"
	"unicode"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/shopspring/decimal"
)

var ErrPackageNotFound = errors.New("package not found")

// packages - фиксированный список пакетов витрины, порядок важен для отображения
var packages = []models.Package{
	// пропуска
	{Name: "WEEKLY PASS", Price: "₹133", Diamonds: 0, Category: models.CategoryPass, Note: "💠❤"},
	{Name: "TWILIGHT PASS", Price: "₹700", Diamonds: 0, Category: models.CategoryPass, Note: "💠❤"},

	// алмазы
	{Name: "86 💎", Price: "₹105", Diamonds: 86, Category: models.CategoryDiamonds, Note: "50💎 task"},
	{Name: "112 💎", Price: "₹155", Diamonds: 112, Category: models.CategoryDiamonds, Note: "100💎 task"},
	{Name: "172 💎", Price: "₹210", Diamonds: 172, Category: models.CategoryDiamonds, Note: "100💎 task"},
	{Name: "257 💎", Price: "₹315", Diamonds: 257, Category: models.CategoryDiamonds},
	{Name: "279 💎", Price: "₹360", Diamonds: 279, Category: models.CategoryDiamonds, Note: "250💎 task"},
	{Name: "344 💎", Price: "₹420", Diamonds: 344, Category: models.CategoryDiamonds, Note: "250💎 task"},
	{Name: "429 💎", Price: "₹525", Diamonds: 429, Category: models.CategoryDiamonds},
	{Name: "514 💎", Price: "₹630", Diamonds: 514, Category: models.CategoryDiamonds},
	{Name: "619 💎", Price: "₹735", Diamonds: 619, Category: models.CategoryDiamonds, Note: "500💎 task"},
	{Name: "706 💎", Price: "₹840", Diamonds: 706, Category: models.CategoryDiamonds},
	{Name: "1050 💎", Price: "₹1300", Diamonds: 1050, Category: models.CategoryDiamonds},
	{Name: "1412 💎", Price: "₹1650", Diamonds: 1412, Category: models.CategoryDiamonds},
	{Name: "1926 💎", Price: "₹2280", Diamonds: 1926, Category: models.CategoryDiamonds},
	{Name: "2195 💎", Price: "₹2500", Diamonds: 2195, Category: models.CategoryDiamonds},
	{Name: "3688 💎", Price: "₹4100", Diamonds: 3688, Category: models.CategoryDiamonds},
	{Name: "5532 💎", Price: "₹6100", Diamonds: 5532, Category: models.CategoryDiamonds},
	{Name: "6042 💎", Price: "₹7400", Diamonds: 6042, Category: models.CategoryDiamonds},
	{Name: "9288 💎", Price: "₹10000", Diamonds: 9288, Category: models.CategoryDiamonds},
	{Name: "20074 💎", Price: "₹25000", Diamonds: 20074, Category: models.CategoryDiamonds},
}

// Catalog - неизменяемый набор пакетов
type Catalog struct {
	items  []models.Package
	byName map[string]int
}

// Default возвращает каталог магазина
func Default() *Catalog {
	return New(packages)
}

// New создаёт каталог из переданного списка. При повторе названия побеждает первый пакет.
func New(items []models.Package) *Catalog {
	c := &Catalog{
		items:  make([]models.Package, len(items)),
		byName: make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, p := range c.items {
		if _, ok := c.byName[p.Name]; !ok {
			c.byName[p.Name] = i
		}
	}
	return c
}

// All возвращает копию всех пакетов в порядке каталога
func (c *Catalog) All() []models.Package {
	out := make([]models.Package, len(c.items))
	copy(out, c.items)
	return out
}

// ByCategory возвращает пакеты одной группы
func (c *Catalog) ByCategory(cat models.Category) []models.Package {
	var out []models.Package
	for _, p := range c.items {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Find ищет пакет по названию
func (c *Catalog) Find(name string) (models.Package, error) {
	i, ok := c.byName[name]
	if !ok {
		return models.Package{}, ErrPackageNotFound
	}
	return c.items[i], nil
}

// Amount выделяет числовую часть отображаемой цены: "₹1300" -> 1300, "₹".
func Amount(p models.Package) (decimal.Decimal, string, error) {
	price := strings.TrimSpace(p.Price)
	idx := strings.IndexFunc(price, func(r rune) bool {
		return unicode.IsDigit(r)
	})
	if idx < 0 {
		return decimal.Zero, "", errors.New("price has no digits: " + p.Price)
	}

	currency := strings.TrimSpace(price[:idx])
	amount, err := decimal.NewFromString(strings.ReplaceAll(price[idx:], ",", ""))
	if err != nil {
		return decimal.Zero, "", err
	}
	return amount, currency, nil
}
