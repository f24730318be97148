package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/park-terminal/internal/models"
)

// parkItem wraps a Park for use in a list
type parkItem struct {
	park     models.Park
	favorite bool
}

// FilterValue implements list.Item
func (p parkItem) FilterValue() string {
	return p.park.FullName + " " + p.park.States + " " + p.park.ParkCode
}

// Title implements list.DefaultItem
func (p parkItem) Title() string {
	if p.favorite {
		return "★ " + p.park.FullName
	}
	return p.park.FullName
}

// Description implements list.DefaultItem
func (p parkItem) Description() string {
	if p.park.Designation == "" {
		return p.park.States
	}
	return fmt.Sprintf("%s • %s", p.park.Designation, p.park.States)
}

// createParkList creates a list.Model from parks, marking favorites
func createParkList(title string, parks []models.Park, favorites []string, width, height int) list.Model {
	fav := make(map[string]bool, len(favorites))
	for _, code := range favorites {
		fav[code] = true
	}

	items := make([]list.Item, len(parks))
	for i, p := range parks {
		items[i] = parkItem{park: p, favorite: fav[p.ParkCode]}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return l
}

// selectedPark returns the park under the cursor, if any
func selectedPark(l list.Model) (models.Park, bool) {
	item, ok := l.SelectedItem().(parkItem)
	if !ok {
		return models.Park{}, false
	}
	return item.park, true
}
