package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/park-terminal/internal/models"
)

// How many alerts of each group the dashboard lists before summarizing
const (
	dashboardCritical = 3
	dashboardCaution  = 4
)

// alertStyle returns the style for an alert category
func alertStyle(category models.AlertCategory) lipgloss.Style {
	switch category {
	case models.CategoryParkClosure, models.CategoryDanger:
		return alertCriticalStyle
	case models.CategoryCaution:
		return alertCautionStyle
	case models.CategoryInformation:
		return alertInfoStyle
	default:
		return valueStyle
	}
}

func alertIcon(category models.AlertCategory) string {
	switch category {
	case models.CategoryParkClosure:
		return "⛔"
	case models.CategoryDanger:
		return "⚠"
	case models.CategoryCaution:
		return "⚡"
	default:
		return "ℹ"
	}
}

// renderAlertList renders every alert, one block each
func renderAlertList(alerts []models.Alert) string {
	if len(alerts) == 0 {
		return successStyle.Render("✓ No active alerts")
	}

	var lines []string
	for _, alert := range alerts {
		lines = append(lines,
			alertStyle(alert.Category).Render(fmt.Sprintf("%s  %s: %s", alertIcon(alert.Category), alert.Category, alert.Title)),
		)
		if alert.Description != "" {
			lines = append(lines, mutedStyle.Render("   "+truncate(alert.Description, 160)))
		}
	}
	return strings.Join(lines, "\n")
}

// renderAlertDashboard renders alerts grouped by severity
func renderAlertDashboard(groups models.AlertGroups) string {
	if groups.Total() == 0 {
		return successStyle.Render("✓ All Clear! No active alerts right now.")
	}

	var sections []string

	if n := len(groups.Critical); n > 0 {
		sections = append(sections, alertCriticalStyle.Render(fmt.Sprintf("Critical Alerts (%d)", n)))
		for _, a := range head(groups.Critical, dashboardCritical) {
			sections = append(sections, renderDashboardAlert(a))
		}
		if n > dashboardCritical {
			sections = append(sections, mutedStyle.Render(fmt.Sprintf("   ...and %d more critical alerts", n-dashboardCritical)))
		}
		sections = append(sections, "")
	}

	if n := len(groups.Warning); n > 0 {
		sections = append(sections, alertCautionStyle.Render(fmt.Sprintf("Caution Alerts (%d)", n)))
		for _, a := range head(groups.Warning, dashboardCaution) {
			sections = append(sections, renderDashboardAlert(a))
		}
		if n > dashboardCaution {
			sections = append(sections, mutedStyle.Render(fmt.Sprintf("   ...and %d more", n-dashboardCaution)))
		}
		sections = append(sections, "")
	}

	if n := len(groups.Info); n > 0 {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		sections = append(sections, alertInfoStyle.Render(fmt.Sprintf("%d Informational Update%s", n, plural)))
	}

	return strings.Join(sections, "\n")
}

func renderDashboardAlert(a models.Alert) string {
	line := alertStyle(a.Category).Render(fmt.Sprintf("%s  %s", alertIcon(a.Category), a.Title))
	if a.ParkCode != "" {
		line += mutedStyle.Render(" [" + strings.ToUpper(a.ParkCode) + "]")
	}
	return line
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
