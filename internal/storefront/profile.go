package storefront

import (
	"bytes"
	"encoding/json"

	"github.com/linemk/topup-store/internal/domain/models"
)

// Profile - результат проверки, подготовленный для отображения.
// Все значения по умолчанию проставляются здесь.
type Profile struct {
	Username    string
	UserID      string
	ServerID    string
	RegionCode  string
	RegionLabel string
	Events      []EventView
	Raw         string
}

type EventView struct {
	Title string
	Stock string
	Goods []GoodView
}

type GoodView struct {
	Title        string
	SKU          string
	LimitReached bool
}

// BuildProfile собирает Profile из ответа API
func BuildProfile(res *models.LookupResult, raw []byte) Profile {
	p := Profile{
		Username:   "Unknown",
		UserID:     res.ID.String(),
		ServerID:   res.Server.String(),
		RegionCode: res.Region.String(),
	}
	switch {
	case res.Username != nil:
		p.Username = res.Username.String()
	case res.Name != nil:
		p.Username = res.Name.String()
	}
	p.RegionLabel = RegionLabel(p.RegionCode)

	for _, evt := range res.ShopEvents {
		ev := EventView{Title: "Event", Stock: evt.StockDisplay.String()}
		if evt.Title != nil {
			ev.Title = evt.Title.String()
		}
		for _, g := range evt.Goods {
			gv := GoodView{Title: "Item", SKU: g.SKU.String(), LimitReached: bool(g.ReachedLimit)}
			if g.Title != nil {
				gv.Title = g.Title.String()
			}
			ev.Goods = append(ev.Goods, gv)
		}
		p.Events = append(p.Events, ev)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err == nil {
		p.Raw = pretty.String()
	} else {
		p.Raw = string(raw)
	}
	return p
}
