package dashboard

import (
	"slices"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pricewatch/pricewatch/internal/catalog"
)

const (
	// RecentPriceLimit caps the recent price list.
	RecentPriceLimit = 10

	unknownSupplier = "Unknown Supplier"
	unknownProduct  = "Unknown Product"
	dateLayout      = "02 Jan 2006 15:04"
)

// Field is a labelled value inside an item block.
type Field struct {
	Label string
	Value string
}

// Item is one rendered entry of a collection.
type Item struct {
	Title  string
	Fields []Field
	Added  string
}

// EmptyState replaces the list when a collection has no entries.
type EmptyState struct {
	Title string
	Hint  string
}

// ListView is the display form of a collection: either Empty is set or
// Items holds one block per entry.
type ListView struct {
	Heading string
	Empty   *EmptyState
	Items   []Item
}

// IsEmpty reports whether the empty state is shown.
func (v ListView) IsEmpty() bool {
	return v.Empty != nil
}

// StatsView holds the formatted dashboard counters.
type StatsView struct {
	Suppliers     string
	Products      string
	PriceEntries  string
	RecentUpdates string
}

// Option is an entry of a select input.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SelectView describes a select input with a leading placeholder.
type SelectView struct {
	Placeholder string
	Options     []Option
}

// FormatDate renders timestamps for item blocks.
func FormatDate(ts catalog.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(dateLayout)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// RenderSuppliers projects the supplier collection.
func RenderSuppliers(s *Snapshot) ListView {
	view := ListView{Heading: "Suppliers"}
	if len(s.Suppliers) == 0 {
		view.Empty = &EmptyState{Title: "No suppliers added yet", Hint: "Add your first supplier to get started"}
		return view
	}
	view.Items = make([]Item, 0, len(s.Suppliers))
	for _, sup := range s.Suppliers {
		view.Items = append(view.Items, Item{
			Title: sup.Name,
			Fields: []Field{
				{Label: "Contact", Value: orDefault(sup.Contact, "Not provided")},
				{Label: "Location", Value: orDefault(sup.Location, "Not provided")},
			},
			Added: FormatDate(sup.CreatedAt),
		})
	}
	return view
}

// RenderProducts projects the product collection.
func RenderProducts(s *Snapshot) ListView {
	view := ListView{Heading: "Products"}
	if len(s.Products) == 0 {
		view.Empty = &EmptyState{Title: "No products added yet", Hint: "Add your first product to get started"}
		return view
	}
	view.Items = make([]Item, 0, len(s.Products))
	for _, p := range s.Products {
		view.Items = append(view.Items, Item{
			Title: p.Name,
			Fields: []Field{
				{Label: "Category", Value: orDefault(p.Category, "Not specified")},
				{Label: "Unit", Value: p.Unit},
			},
			Added: FormatDate(p.CreatedAt),
		})
	}
	return view
}

// RenderRecentPrices projects the newest price entries, resolving supplier
// and product names against the same snapshot.
func RenderRecentPrices(s *Snapshot) ListView {
	view := ListView{Heading: "Recent Price Entries"}
	if len(s.Prices) == 0 {
		view.Empty = &EmptyState{Title: "No price entries yet", Hint: "Add a price entry to start comparing suppliers"}
		return view
	}

	recent := slices.Clone(s.Prices)
	slices.SortStableFunc(recent, func(a, b catalog.PriceEntry) int {
		return b.Date.Compare(a.Date.Time)
	})
	if len(recent) > RecentPriceLimit {
		recent = recent[:RecentPriceLimit]
	}

	view.Items = make([]Item, 0, len(recent))
	for _, entry := range recent {
		view.Items = append(view.Items, Item{
			Title: ProductName(s, entry.ProductID) + " - " + entry.Price.StringFixed(2),
			Fields: []Field{
				{Label: "Supplier", Value: SupplierName(s, entry.SupplierID)},
				{Label: "Notes", Value: orDefault(entry.Notes, "No notes")},
			},
			Added: FormatDate(entry.Date),
		})
	}
	return view
}

// SupplierName resolves a supplier id, falling back to "Unknown Supplier".
func SupplierName(s *Snapshot, id int64) string {
	if sup, ok := s.Supplier(id); ok {
		return sup.Name
	}
	return unknownSupplier
}

// ProductName resolves a product id, falling back to "Unknown Product".
func ProductName(s *Snapshot, id int64) string {
	if p, ok := s.Product(id); ok {
		return p.Name
	}
	return unknownProduct
}

// RenderStats formats the dashboard counters with digit grouping.
func RenderStats(s *Snapshot) StatsView {
	p := message.NewPrinter(language.English)
	return StatsView{
		Suppliers:     p.Sprintf("%d", s.Stats.TotalSuppliers),
		Products:      p.Sprintf("%d", s.Stats.TotalProducts),
		PriceEntries:  p.Sprintf("%d", s.Stats.TotalPriceEntries),
		RecentUpdates: p.Sprintf("%d", s.Stats.RecentUpdates),
	}
}

// SupplierOptions lists suppliers for a select input.
func SupplierOptions(s *Snapshot, selected string) SelectView {
	view := SelectView{Placeholder: "Select a supplier"}
	for _, sup := range s.Suppliers {
		value := strconv.FormatInt(sup.ID, 10)
		view.Options = append(view.Options, Option{Value: value, Label: sup.Name, Selected: value == selected})
	}
	return view
}

// ProductOptions lists products for a select input.
func ProductOptions(s *Snapshot, placeholder, selected string) SelectView {
	view := SelectView{Placeholder: placeholder}
	for _, p := range s.Products {
		value := strconv.FormatInt(p.ID, 10)
		view.Options = append(view.Options, Option{Value: value, Label: p.Name, Selected: value == selected})
	}
	return view
}
