package view

import (
	"fmt"
	"io"
)

// Button variants.
const (
	ButtonTypeIcon   = "icon"
	ButtonTypeButton = "button"
)

// ActionButton toggles a symbol's watchlist membership.
// The rendered element carries data-symbol and data-in-watchlist for the page script.
type ActionButton struct {
	Symbol        string
	Company       string
	IsInWatchlist bool
	ShowTrashIcon bool
	Type          string
}

// RemoveButton is the trash-icon variant used in table rows.
func RemoveButton(symbol, company string) ActionButton {
	return ActionButton{
		Symbol:        symbol,
		Company:       company,
		IsInWatchlist: true,
		ShowTrashIcon: true,
		Type:          ButtonTypeIcon,
	}
}

// Title is the hover text and accessible label.
func (b ActionButton) Title() string {
	if b.IsInWatchlist {
		return fmt.Sprintf("Remove %s from watchlist", b.Symbol)
	}
	return fmt.Sprintf("Add %s to watchlist", b.Symbol)
}

// Label is the text of the full-width variant.
func (b ActionButton) Label() string {
	if b.IsInWatchlist {
		return "Remove from Watchlist"
	}
	return "Add to Watchlist"
}

// Render writes the button markup.
func (b ActionButton) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "action_button", b)
}
