package compare

import "github.com/pricewatch/pricewatch/internal/catalog"

// RowView is a formatted comparison row.
type RowView struct {
	Supplier string
	Price    string
	Date     string
	Notes    string
	Best     bool
}

// Result is the display form of a comparison state.
type Result struct {
	Phase      Phase
	Message    string
	EmptyTitle string
	EmptyHint  string
	Heading    string
	Note       string
	Rows       []RowView
}

// Visible reports whether anything is shown.
func (r Result) Visible() bool {
	return r.Phase != PhaseIdle
}

// Render projects a state. productName may be empty when the product is not
// known locally.
func Render(state State, productName string) Result {
	res := Result{Phase: state.Phase}
	switch {
	case state.Phase == PhaseIdle:
		return res
	case state.Phase == PhaseLoading:
		res.Message = "Loading price comparison..."
	case state.Failed:
		res.EmptyTitle = "Error loading comparison"
	case len(state.Rows) == 0:
		res.EmptyTitle = "No prices found"
		res.EmptyHint = "No price data available for " + orDefault(productName, "this product")
	default:
		res.Heading = "Price Comparison for " + orDefault(productName, "Selected Product")
		res.Note = "Prices sorted from lowest to highest"
		res.Rows = make([]RowView, 0, len(state.Rows))
		for _, row := range state.Rows {
			res.Rows = append(res.Rows, RowView{
				Supplier: row.SupplierName,
				Price:    row.Price.StringFixed(2),
				Date:     formatDate(row.Date),
				Notes:    orDefault(row.Notes, "No additional notes"),
				Best:     row.Best,
			})
		}
	}
	return res
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func formatDate(ts catalog.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02 Jan 2006 15:04")
}
