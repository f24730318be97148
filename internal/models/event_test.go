package models

import (
	"encoding/json"
	"testing"
)

func TestEvent_Dates(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantOK    bool
		wantStart string
		wantRange string
	}{
		{"single day", "2025-07-04", "2025-07-04", true, "Fri, Jul 4, 2025", "Fri, Jul 4, 2025"},
		{"range", "2025-07-04", "2025-07-06", true, "Fri, Jul 4, 2025", "Fri, Jul 4, 2025 - Sun, Jul 6, 2025"},
		{"no end", "2025-12-25", "", true, "Thu, Dec 25, 2025", "Thu, Dec 25, 2025"},
		{"malformed falls back to raw", "sometime soon", "", false, "sometime soon", "sometime soon"},
		{"empty", "", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{DateStart: tt.start, DateEnd: tt.end}

			if _, ok := e.StartDate(); ok != tt.wantOK {
				t.Errorf("StartDate() ok = %v, want %v", ok, tt.wantOK)
			}
			if got := e.FormatStartDate(); got != tt.wantStart {
				t.Errorf("FormatStartDate() = %q, want %q", got, tt.wantStart)
			}
			if got := e.DateRange(); got != tt.wantRange {
				t.Errorf("DateRange() = %q, want %q", got, tt.wantRange)
			}
		})
	}
}

func TestEvent_DecodesLowercaseFields(t *testing.T) {
	raw := `{"id":"e1","title":"Night Sky","parkfullname":"Bryce Canyon National Park",
		"datestart":"2025-08-01","times":[{"timestart":"9:00 PM","timeend":"10:30 PM"}],"parkCode":"brca"}`

	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.ParkFullName != "Bryce Canyon National Park" || e.ParkCode != "brca" {
		t.Errorf("decoded = %+v", e)
	}
	if len(e.Times) != 1 || e.Times[0].TimeStart != "9:00 PM" {
		t.Errorf("Times = %+v", e.Times)
	}
}
