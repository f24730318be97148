package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/park-terminal/internal/compare"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

const (
	detailActivities = 10
	detailEvents     = 5
	compareColumn    = 34
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// renderParkDetail renders a park page without borders
func renderParkDetail(d nps.Detail, favorite bool, width int) string {
	p := d.Park.Value
	if p == nil {
		return mutedStyle.Render("No park data available")
	}
	textWidth := max(width-4, 40)
	wrap := lipgloss.NewStyle().Width(textWidth)

	var sections []string

	header := titleStyle.Render(p.FullName)
	if favorite {
		header += " " + favoriteStyle.Render("★ Favorite")
	}
	sections = append(sections, header)

	sub := p.States
	if p.Designation != "" {
		sub = p.Designation + " • " + sub
	}
	sections = append(sections, mutedStyle.Render(sub))

	if p.Description != "" {
		sections = append(sections, "", wrap.Render(p.Description))
	}

	sections = append(sections,
		sectionHeaderStyle.Render("ALERTS"),
		renderDetailAlerts(d.Alerts),
	)

	if len(p.Activities) > 0 {
		names := make([]string, 0, detailActivities)
		for _, a := range head(p.Activities, detailActivities) {
			names = append(names, a.Name)
		}
		sections = append(sections,
			sectionHeaderStyle.Render("ACTIVITIES"),
			wrap.Render(strings.Join(names, " • ")),
		)
	}

	if hours := renderHours(p.OperatingHours); hours != "" {
		sections = append(sections, sectionHeaderStyle.Render("HOURS"), hours)
	}

	if len(p.EntranceFees) > 0 {
		var lines []string
		for _, fee := range p.EntranceFees {
			lines = append(lines, fmt.Sprintf("%s %s", valueStyle.Render("$"+fee.Cost), fee.Title))
		}
		sections = append(sections, sectionHeaderStyle.Render("ENTRANCE FEES"), strings.Join(lines, "\n"))
	}

	if contacts := renderContacts(p.Contacts); contacts != "" {
		sections = append(sections, sectionHeaderStyle.Render("CONTACT"), contacts)
	}

	if p.WeatherInfo != "" {
		sections = append(sections, sectionHeaderStyle.Render("WEATHER"), wrap.Render(p.WeatherInfo))
	}

	sections = append(sections,
		sectionHeaderStyle.Render("UPCOMING EVENTS"),
		renderEvents(d.Events),
	)

	if p.DirectionsURL != "" || p.URL != "" {
		var links []string
		if p.URL != "" {
			links = append(links, labelStyle.Render("Website: ")+p.URL)
		}
		if p.DirectionsURL != "" {
			links = append(links, labelStyle.Render("Directions: ")+p.DirectionsURL)
		}
		sections = append(sections, "", strings.Join(links, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderDetailAlerts(r nps.Result[[]models.Alert]) string {
	if r.Failed() {
		return errorStyle.Render("✗ Alerts unavailable")
	}
	return renderAlertList(r.Value)
}

func renderHours(hours []models.OperatingHours) string {
	if len(hours) == 0 || len(hours[0].StandardHours) == 0 {
		return ""
	}
	std := hours[0].StandardHours

	days := make([]string, 0, len(std))
	for day := range std {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return dayIndex(days[i]) < dayIndex(days[j])
	})

	var lines []string
	for _, day := range days {
		if day == "" {
			continue
		}
		name := strings.ToUpper(day[:1]) + day[1:]
		lines = append(lines, fmt.Sprintf("%-10s %s", name, std[day]))
	}
	return strings.Join(lines, "\n")
}

func dayIndex(day string) int {
	for i, d := range weekdays {
		if d == strings.ToLower(day) {
			return i
		}
	}
	return len(weekdays)
}

func renderContacts(c models.Contacts) string {
	var lines []string
	for _, phone := range c.PhoneNumbers {
		line := phone.PhoneNumber
		if phone.Type != "" {
			line = fmt.Sprintf("%s (%s)", line, phone.Type)
		}
		lines = append(lines, line)
	}
	for _, email := range c.EmailAddresses {
		lines = append(lines, email.EmailAddress)
	}
	return strings.Join(lines, "\n")
}

func renderEvents(r nps.Result[[]models.Event]) string {
	if r.Failed() {
		return errorStyle.Render("✗ Events unavailable")
	}
	if len(r.Value) == 0 {
		return mutedStyle.Render("No upcoming events")
	}

	var lines []string
	for _, e := range head(r.Value, detailEvents) {
		lines = append(lines, valueStyle.Bold(true).Render(e.Title))
		when := e.DateRange()
		if len(e.Times) > 0 && e.Times[0].TimeStart != "" {
			when += fmt.Sprintf(", %s - %s", e.Times[0].TimeStart, e.Times[0].TimeEnd)
		}
		if when != "" {
			lines = append(lines, mutedStyle.Render("  "+when))
		}
		if e.Location != "" {
			lines = append(lines, mutedStyle.Render("  "+e.Location))
		}
	}
	if extra := len(r.Value) - detailEvents; extra > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("...and %d more", extra)))
	}
	return strings.Join(lines, "\n")
}

// renderCompareColumns renders one column per slot
func renderCompareColumns(sel *compare.Selection) string {
	cols := make([]string, 0, compare.Slots)
	for i := 0; i < compare.Slots; i++ {
		p := sel.Slot(i)
		if p == nil {
			cols = append(cols, emptyColumnStyle.Width(compareColumn).Render(
				fmt.Sprintf("Slot %d of %d\n\nEmpty", i+1, compare.Slots)))
			continue
		}
		cols = append(cols, columnStyle.Width(compareColumn).Render(renderSummary(i, compare.Summarize(*p))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderSummary(slot int, s compare.Summary) string {
	fee := "Free"
	if !s.Free() {
		fee = "$" + s.EntranceFee
	}

	lines := []string{
		titleStyle.Render(s.Name),
		mutedStyle.Render(s.States),
		"",
		labelStyle.Render("Description"),
		s.Description,
		"",
		labelStyle.Render("Top Activities"),
	}
	if len(s.Activities) == 0 {
		lines = append(lines, mutedStyle.Render("None listed"))
	}
	for _, a := range s.Activities {
		lines = append(lines, "• "+a)
	}
	lines = append(lines,
		"",
		labelStyle.Render("Entrance Fee"),
		fee,
		"",
		mutedStyle.Render(fmt.Sprintf("Slot %d of %d", slot+1, compare.Slots)),
	)
	return strings.Join(lines, "\n")
}

// truncate shortens s to n runes, marking the cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
