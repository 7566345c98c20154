// Package view renders the watchlist as server-side HTML.
package view

import (
	"embed"
	"html/template"
	"io"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/transport/http/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DefaultRemoveAction is the form target used when scripts are unavailable.
const DefaultRemoveAction = "/watchlist/remove"

// Table holds the rows currently shown to the user.
// It starts from the server-provided list and only shrinks through HandleWatchlistChange.
type Table struct {
	rows         []entity.StockRow
	removeAction string
}

// NewTable copies rows so that later changes never touch the caller's slice.
func NewTable(rows []entity.StockRow) *Table {
	cp := make([]entity.StockRow, len(rows))
	copy(cp, rows)
	return &Table{rows: cp, removeAction: DefaultRemoveAction}
}

// Rows returns the current rows in display order.
func (t *Table) Rows() []entity.StockRow {
	out := make([]entity.StockRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len reports how many rows are shown.
func (t *Table) Len() int {
	return len(t.rows)
}

// HandleWatchlistChange applies a confirmed membership change.
// A removal drops every row with that symbol; additions are ignored since
// the table only lists watched symbols.
func (t *Table) HandleWatchlistChange(symbol string, added bool) {
	if added {
		return
	}
	kept := t.rows[:0]
	for _, r := range t.rows {
		if r.Symbol != symbol {
			kept = append(kept, r)
		}
	}
	t.rows = kept
}

type rowView struct {
	dto.WatchlistRow
	Button ActionButton
}

type tableView struct {
	Rows         []rowView
	RemoveAction string
}

func (t *Table) viewModel() tableView {
	rows := make([]rowView, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, rowView{
			WatchlistRow: dto.FromStockRow(r),
			Button:       RemoveButton(r.Symbol, r.Company),
		})
	}
	return tableView{Rows: rows, RemoveAction: t.removeAction}
}

// Render writes the table markup. It writes nothing when the table is empty.
func (t *Table) Render(w io.Writer) error {
	if len(t.rows) == 0 {
		return nil
	}
	return templates.ExecuteTemplate(w, "watchlist_table", t.viewModel())
}

// Page is the full watchlist document.
type Page struct {
	Table   *Table
	Flash   string
	APIPath string
}

// Render writes the HTML document around the table.
func (p Page) Render(w io.Writer) error {
	if p.Table == nil {
		p.Table = NewTable(nil)
	}
	return templates.ExecuteTemplate(w, "watchlist_page", struct {
		Table   tableView
		Flash   string
		APIPath string
	}{
		Table:   p.Table.viewModel(),
		Flash:   p.Flash,
		APIPath: p.APIPath,
	})
}
