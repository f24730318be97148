package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

// poolLimit is how many parks the favorites and compare screens draw from
const poolLimit = 500

// Message types for async operations

// listingLoadedMsg is sent when a park listing has been fetched
type listingLoadedMsg struct {
	listing   nps.Listing
	favorites []string
}

// detailLoadedMsg is sent when a park page has been fetched
type detailLoadedMsg struct {
	code     string
	detail   nps.Detail
	favorite bool
}

// alertsLoadedMsg is sent when the alerts dashboard has been fetched
type alertsLoadedMsg struct {
	alerts nps.Result[[]models.Alert]
}

// favoritesLoadedMsg is sent with the parks behind the favorite codes
type favoritesLoadedMsg struct {
	codes []string
	parks []models.Park
	err   error
}

// favoriteToggledMsg is sent after a favorite was added or removed
type favoriteToggledMsg struct {
	code  string
	added bool
	err   error
}

// favoritesClearedMsg is sent after every favorite was removed
type favoritesClearedMsg struct {
	err error
}

// comparePoolLoadedMsg is sent with the parks offered for comparison
type comparePoolLoadedMsg struct {
	parks nps.Result[[]models.Park]
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

func browse(s ParkService, f FavoriteStore, q nps.BrowseQuery) tea.Cmd {
	return func() tea.Msg {
		listing := s.Browse(context.Background(), q)
		var favs []string
		if f != nil {
			// Stars are cosmetic; a store error just drops them
			favs, _ = f.List()
		}
		return listingLoadedMsg{listing: listing, favorites: favs}
	}
}

func fetchDetail(s ParkService, f FavoriteStore, code string) tea.Cmd {
	return func() tea.Msg {
		d := s.Detail(context.Background(), code)
		fav := false
		if f != nil {
			fav, _ = f.Contains(code)
		}
		return detailLoadedMsg{code: code, detail: d, favorite: fav}
	}
}

func fetchAlerts(s ParkService) tea.Cmd {
	return func() tea.Msg {
		return alertsLoadedMsg{alerts: s.Alerts(context.Background(), "")}
	}
}

// fetchFavorites resolves favorite codes to parks, keeping favorite order
func fetchFavorites(s ParkService, f FavoriteStore) tea.Cmd {
	return func() tea.Msg {
		codes, err := f.List()
		if err != nil {
			return favoritesLoadedMsg{err: err}
		}
		if len(codes) == 0 {
			return favoritesLoadedMsg{codes: codes, parks: []models.Park{}}
		}

		ctx := context.Background()
		all := s.Parks(ctx, "", poolLimit)
		byCode := make(map[string]models.Park, len(all.Value))
		for _, p := range all.Value {
			byCode[p.ParkCode] = p
		}

		parks := make([]models.Park, 0, len(codes))
		for _, code := range codes {
			if p, ok := byCode[code]; ok {
				parks = append(parks, p)
				continue
			}
			// Not in the bulk listing; ask for it directly
			if r := s.ParkByCode(ctx, code); r.Value != nil {
				parks = append(parks, *r.Value)
			}
		}

		msg := favoritesLoadedMsg{codes: codes, parks: parks}
		if all.Failed() && len(parks) == 0 {
			msg.err = fmt.Errorf("loading favorite parks: %w", all.Err)
		}
		return msg
	}
}

func toggleFavorite(f FavoriteStore, code string) tea.Cmd {
	return func() tea.Msg {
		added, err := f.Toggle(code)
		return favoriteToggledMsg{code: code, added: added, err: err}
	}
}

func clearFavorites(f FavoriteStore) tea.Cmd {
	return func() tea.Msg {
		return favoritesClearedMsg{err: f.Clear()}
	}
}

func fetchComparePool(s ParkService) tea.Cmd {
	return func() tea.Msg {
		return comparePoolLoadedMsg{parks: s.Parks(context.Background(), "", poolLimit)}
	}
}
