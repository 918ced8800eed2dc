package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"bankaimise/internal/catalog"
	"bankaimise/internal/storage"
)

// DailyStats is the storefront activity for one day.
type DailyStats struct {
	Date           string                 `json:"date"`
	ChatMessages   int                    `json:"chat_messages"`
	UniqueShoppers int                    `json:"unique_shoppers"`
	Logins         int                    `json:"logins"`
	Logouts        int                    `json:"logouts"`
	CartAdds       int                    `json:"cart_adds"`
	UnitsAdded     int                    `json:"units_added"`
	UnitsByProduct map[int]int            `json:"units_by_product"`
	ShopperStats   map[int64]ShopperStats `json:"shopper_stats"`
}

type ShopperStats struct {
	ShopperID    int64 `json:"shopper_id"`
	ChatMessages int   `json:"chat_messages"`
	CartAdds     int   `json:"cart_adds"`
	UnitsAdded   int   `json:"units_added"`
}

// AnalyzeDay aggregates events whose timestamp falls on the same calendar day as day.
func AnalyzeDay(events []storage.Event, day time.Time) *DailyStats {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:           startOfDay.Format("2006-01-02"),
		UnitsByProduct: make(map[int]int),
		ShopperStats:   make(map[int64]ShopperStats),
	}

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}

		ss, ok := stats.ShopperStats[ev.ShopperID]
		if !ok {
			ss = ShopperStats{ShopperID: ev.ShopperID}
		}

		switch ev.Kind {
		case storage.EventChat:
			if ev.UserMessage == "" {
				continue
			}
			stats.ChatMessages++
			ss.ChatMessages++
		case storage.EventCartAdd:
			stats.CartAdds++
			stats.UnitsAdded += ev.Quantity
			stats.UnitsByProduct[ev.ProductID] += ev.Quantity
			ss.CartAdds++
			ss.UnitsAdded += ev.Quantity
		case storage.EventLogin:
			stats.Logins++
		case storage.EventLogout:
			stats.Logouts++
		default:
			continue
		}
		stats.ShopperStats[ev.ShopperID] = ss
	}

	stats.UniqueShoppers = len(stats.ShopperStats)
	return stats
}

// Summary renders the stats as plain text. Product ids are named from cat when possible.
func (ds *DailyStats) Summary(cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BankaiMise activity for %s\n\n", ds.Date)
	fmt.Fprintf(&b, "Shoppers: %d\n", ds.UniqueShoppers)
	fmt.Fprintf(&b, "Logins: %d, logouts: %d\n", ds.Logins, ds.Logouts)
	fmt.Fprintf(&b, "Assistant questions: %d\n", ds.ChatMessages)
	fmt.Fprintf(&b, "Cart additions: %d (%d units)\n", ds.CartAdds, ds.UnitsAdded)

	if len(ds.UnitsByProduct) > 0 {
		b.WriteString("\nMost wanted:\n")
		for _, pu := range ds.topProducts() {
			name := fmt.Sprintf("#%d", pu.id)
			if cat != nil {
				if p, ok := cat.Lookup(pu.id); ok {
					name = p.Name
				}
			}
			fmt.Fprintf(&b, "- %s: %d\n", name, pu.units)
		}
	}
	return b.String()
}

type productUnits struct {
	id    int
	units int
}

func (ds *DailyStats) topProducts() []productUnits {
	out := make([]productUnits, 0, len(ds.UnitsByProduct))
	for id, n := range ds.UnitsByProduct {
		out = append(out, productUnits{id: id, units: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].units != out[j].units {
			return out[i].units > out[j].units
		}
		return out[i].id < out[j].id
	})
	return out
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
