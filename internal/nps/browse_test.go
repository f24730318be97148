package nps

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/ngmaloney/park-terminal/internal/models"
)

func TestBrowse(t *testing.T) {
	parks := []models.Park{
		{ParkCode: "acad", States: "ME", Activities: []models.Tag{{Name: "Hiking"}, {Name: "Biking"}}},
		{ParkCode: "yell", States: "WY,MT,ID", Activities: []models.Tag{{Name: "Wildlife Watching"}}},
	}

	var lastQuery atomic.Value
	svc := newTestService(t, "key", func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query())
		writeJSON(w, models.Response[models.Park]{Data: parks})
	})

	tests := []struct {
		name      string
		query     BrowseQuery
		wantTitle string
		wantParam string
		wantValue string
		wantCount int
	}{
		{"all parks", BrowseQuery{}, "All National Parks", "limit", "51", 2},
		{"state", BrowseQuery{State: "ME"}, "National Parks in ME", "stateCode", "ME", 2},
		{"search wins over state", BrowseQuery{Search: "coast", State: "ME"}, `Search Results for "coast"`, "q", "coast", 2},
		{"activity filter", BrowseQuery{Activity: "hiking"}, "Parks for hiking", "limit", "51", 1},
		{"activity with search", BrowseQuery{Search: "park", Activity: "wildlife"}, "Parks for wildlife", "q", "park", 1},
		{"activity with no match", BrowseQuery{Activity: "surfing"}, "Parks for surfing", "limit", "51", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Every case must reach the server so its query can be checked
			svc.client.Purge()
			l := svc.Browse(context.Background(), tt.query)

			if l.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", l.Title, tt.wantTitle)
			}
			q := lastQuery.Load().(url.Values)
			if got := q[tt.wantParam]; len(got) == 0 || got[0] != tt.wantValue {
				t.Errorf("param %s = %v, want %s", tt.wantParam, got, tt.wantValue)
			}
			if len(l.Parks.Value) != tt.wantCount {
				t.Errorf("len(parks) = %d, want %d", len(l.Parks.Value), tt.wantCount)
			}
			if tt.wantCount == 0 && l.Parks.Status != StatusEmpty {
				t.Errorf("Status = %v, want empty", l.Parks.Status)
			}
		})
	}
}

func TestDetail_FetchesAllThree(t *testing.T) {
	var hits int32
	svc := newTestService(t, "key", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if got := r.URL.Query().Get("parkCode"); got != "zion" {
			t.Errorf("%s parkCode = %q, want zion", r.URL.Path, got)
		}
		switch r.URL.Path {
		case "/parks":
			writeJSON(w, models.Response[models.Park]{Data: []models.Park{{ParkCode: "zion", FullName: "Zion National Park"}}})
		case "/alerts":
			writeJSON(w, models.Response[models.Alert]{Data: []models.Alert{{ID: "a", Category: models.CategoryCaution}}})
		case "/events":
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	d := svc.Detail(context.Background(), "zion")

	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("upstream hits = %d, want 3", hits)
	}
	if !d.Found() || d.Park.Value.FullName != "Zion National Park" {
		t.Errorf("Park = %+v, want Zion", d.Park)
	}
	if len(d.Alerts.Value) != 1 {
		t.Errorf("Alerts = %+v, want one alert", d.Alerts)
	}
	// One failing call does not spoil the others
	if !d.Events.Failed() || len(d.Events.Value) != 0 {
		t.Errorf("Events = %+v, want failed empty result", d.Events)
	}
}

func TestDetail_NotFound(t *testing.T) {
	svc := newTestService(t, "key", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []any{}})
	})

	d := svc.Detail(context.Background(), "nope")
	if d.Found() {
		t.Error("Found() = true for an unknown park code")
	}
	if d.Park.Status != StatusEmpty {
		t.Errorf("Park.Status = %v, want empty", d.Park.Status)
	}
}

func TestFeatured(t *testing.T) {
	svc := newTestService(t, "key", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/parks":
			if got := r.URL.Query().Get("limit"); got != "6" {
				t.Errorf("featured limit = %q, want 6", got)
			}
			writeJSON(w, models.Response[models.Park]{Data: []models.Park{{ParkCode: "acad"}}})
		case "/alerts":
			writeJSON(w, models.Response[models.Alert]{Data: []models.Alert{{ID: "a"}, {ID: "b"}}})
		}
	})

	h := svc.Featured(context.Background())
	if len(h.Parks.Value) != 1 || len(h.Alerts.Value) != 2 {
		t.Errorf("Featured() = %+v", h)
	}
}
