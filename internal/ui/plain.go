package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/ngmaloney/park-terminal/internal/boundaries"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

// Plain-text renderers for non-interactive output

// PrintListing writes a titled park list, one park per line
func PrintListing(w io.Writer, l nps.Listing, favorites []string) {
	fmt.Fprintf(w, "%s\n", l.Title)
	printFailure(w, "parks", l.Parks.Err)
	if len(l.Parks.Value) == 0 {
		fmt.Fprintln(w, "  No parks found")
		return
	}

	fav := make(map[string]bool, len(favorites))
	for _, code := range favorites {
		fav[code] = true
	}
	for _, p := range l.Parks.Value {
		mark := " "
		if fav[p.ParkCode] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-6s %s (%s)\n", mark, p.ParkCode, p.FullName, p.States)
	}
}

// PrintDetail writes a park page
func PrintDetail(w io.Writer, d nps.Detail, favorite bool) {
	p := d.Park.Value
	if p == nil {
		printFailure(w, "park", d.Park.Err)
		fmt.Fprintln(w, "Park not found")
		return
	}

	name := p.FullName
	if favorite {
		name += " [favorite]"
	}
	fmt.Fprintf(w, "%s\n%s\n", name, strings.Repeat("=", len([]rune(name))))
	sub := p.States
	if p.Designation != "" {
		sub = p.Designation + ", " + sub
	}
	fmt.Fprintf(w, "%s\n\n", sub)
	if p.Description != "" {
		fmt.Fprintf(w, "%s\n\n", p.Description)
	}

	if len(p.Activities) > 0 {
		names := make([]string, 0, detailActivities)
		for _, a := range head(p.Activities, detailActivities) {
			names = append(names, a.Name)
		}
		fmt.Fprintf(w, "Activities: %s\n", strings.Join(names, ", "))
	}
	for _, fee := range p.EntranceFees {
		fmt.Fprintf(w, "Fee: $%s %s\n", fee.Cost, fee.Title)
	}
	if p.URL != "" {
		fmt.Fprintf(w, "Website: %s\n", p.URL)
	}

	fmt.Fprintln(w, "\nAlerts:")
	PrintAlerts(w, d.Alerts)

	fmt.Fprintln(w, "\nEvents:")
	printFailure(w, "events", d.Events.Err)
	if len(d.Events.Value) == 0 {
		fmt.Fprintln(w, "  No upcoming events")
	}
	for _, e := range d.Events.Value {
		fmt.Fprintf(w, "  %s: %s\n", e.DateRange(), e.Title)
	}
}

// PrintAlerts writes alerts grouped by severity
func PrintAlerts(w io.Writer, r nps.Result[[]models.Alert]) {
	printFailure(w, "alerts", r.Err)
	groups := models.GroupAlerts(r.Value)
	if groups.Total() == 0 {
		fmt.Fprintln(w, "  No active alerts")
		return
	}

	sections := []struct {
		label  string
		alerts []models.Alert
	}{
		{"Critical", groups.Critical},
		{"Caution", groups.Warning},
		{"Information", groups.Info},
	}
	for _, s := range sections {
		if len(s.alerts) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s (%d)\n", s.label, len(s.alerts))
		for _, a := range s.alerts {
			park := ""
			if a.ParkCode != "" {
				park = " [" + strings.ToUpper(a.ParkCode) + "]"
			}
			fmt.Fprintf(w, "    - %s%s\n", a.Title, park)
		}
	}
}

// PrintNearby writes boundary matches with their distances
func PrintNearby(w io.Writer, lat, lon float64, inside, nearby []boundaries.Park) {
	fmt.Fprintf(w, "Parks at (%.4f, %.4f)\n", lat, lon)
	if len(inside) == 0 {
		fmt.Fprintln(w, "  Not inside any park boundary")
	}
	for _, p := range inside {
		fmt.Fprintf(w, "  inside %-6s %s\n", p.Code, p.Name)
	}

	fmt.Fprintln(w, "Nearby:")
	if len(nearby) == 0 {
		fmt.Fprintln(w, "  None")
	}
	for _, p := range nearby {
		fmt.Fprintf(w, "  %6.1f mi  %-6s %s\n", p.Distance, p.Code, p.Name)
	}
}

func printFailure(w io.Writer, what string, err error) {
	if err != nil {
		fmt.Fprintf(w, "! could not load %s: %v\n", what, err)
	}
}
