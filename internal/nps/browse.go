package nps

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/park-terminal/internal/models"
)

// FeaturedLimit is the number of parks on the home screen
const FeaturedLimit = 6

// BrowseQuery selects what the park listing shows.
// Search takes precedence over State; Activity narrows either.
type BrowseQuery struct {
	Search   string
	State    string
	Activity string
}

// Listing is a titled park list
type Listing struct {
	Title string
	Parks Result[[]models.Park]
}

// Browse resolves a BrowseQuery into a listing
func (s *Service) Browse(ctx context.Context, q BrowseQuery) Listing {
	search := strings.TrimSpace(q.Search)
	state := strings.TrimSpace(q.State)
	activity := strings.TrimSpace(q.Activity)

	var l Listing
	switch {
	case search != "":
		l.Title = fmt.Sprintf("Search Results for %q", search)
		l.Parks = s.SearchParks(ctx, search)
	case state != "":
		l.Title = fmt.Sprintf("National Parks in %s", state)
		l.Parks = s.Parks(ctx, state, 0)
	default:
		l.Title = "All National Parks"
		l.Parks = s.Parks(ctx, "", 0)
	}

	if activity != "" {
		l.Title = fmt.Sprintf("Parks for %s", activity)
		if !l.Parks.Failed() {
			l.Parks = listResult(FilterByActivity(l.Parks.Value, activity))
		}
	}
	return l
}

// FilterByActivity keeps parks with an activity name containing term
func FilterByActivity(parks []models.Park, term string) []models.Park {
	out := make([]models.Park, 0, len(parks))
	for i := range parks {
		if parks[i].HasActivity(term) {
			out = append(out, parks[i])
		}
	}
	return out
}

// Detail is everything shown on a park page
type Detail struct {
	Park   Result[*models.Park]
	Alerts Result[[]models.Alert]
	Events Result[[]models.Event]
}

// Found reports whether the park itself was returned
func (d Detail) Found() bool {
	return d.Park.Value != nil
}

// Detail fetches the park, its alerts and its events concurrently
func (s *Service) Detail(ctx context.Context, parkCode string) Detail {
	var d Detail
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Park = s.ParkByCode(gctx, parkCode)
		return nil
	})
	g.Go(func() error {
		d.Alerts = s.Alerts(gctx, parkCode)
		return nil
	})
	g.Go(func() error {
		d.Events = s.Events(gctx, parkCode)
		return nil
	})

	// Query functions never return errors; failures live in each Result
	_ = g.Wait()
	return d
}

// Home is the landing screen content
type Home struct {
	Parks  Result[[]models.Park]
	Alerts Result[[]models.Alert]
}

// Featured fetches a handful of parks and the latest alerts concurrently
func (s *Service) Featured(ctx context.Context) Home {
	var h Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h.Parks = s.Parks(gctx, "", FeaturedLimit)
		return nil
	})
	g.Go(func() error {
		h.Alerts = s.Alerts(gctx, "")
		return nil
	})

	_ = g.Wait()
	return h
}
