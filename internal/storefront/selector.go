package storefront

import (
	"sync"

	"github.com/linemk/topup-store/internal/catalog"
	"github.com/linemk/topup-store/internal/domain/models"
)

// Card - карточка пакета на витрине
type Card struct {
	models.Package
	Selected bool
}

type SelectorView struct {
	Passes   []Card
	Diamonds []Card
	Selected string
}

// Selector хранит единственный выбранный пакет
type Selector struct {
	catalog  *catalog.Catalog
	onSelect func(models.Package)

	mu       sync.Mutex
	selected string
}

func NewSelector(cat *catalog.Catalog, onSelect func(models.Package)) *Selector {
	return &Selector{catalog: cat, onSelect: onSelect}
}

// Select делает пакет активным, заменяя предыдущий выбор, и сообщает о нём родителю.
// Повторный выбор того же пакета ничего не меняет, но родитель уведомляется снова.
func (s *Selector) Select(name string) (models.Package, error) {
	pkg, err := s.catalog.Find(name)
	if err != nil {
		return models.Package{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = pkg.Name
	if s.onSelect != nil {
		s.onSelect(pkg)
	}
	return pkg, nil
}

// Selected возвращает название выбранного пакета или пустую строку
func (s *Selector) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Selector) View() SelectorView {
	selected := s.Selected()
	return SelectorView{
		Passes:   cards(s.catalog.ByCategory(models.CategoryPass), selected),
		Diamonds: cards(s.catalog.ByCategory(models.CategoryDiamonds), selected),
		Selected: selected,
	}
}

func cards(items []models.Package, selected string) []Card {
	out := make([]Card, 0, len(items))
	for _, p := range items {
		out = append(out, Card{Package: p, Selected: p.Name == selected})
	}
	return out
}
