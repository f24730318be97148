package models

// AlertCategory is the closed set of NPS alert categories
type AlertCategory string

const (
	CategoryParkClosure AlertCategory = "Park Closure"
	CategoryCaution     AlertCategory = "Caution"
	CategoryInformation AlertCategory = "Information"
	CategoryDanger      AlertCategory = "Danger"
)

// Alert represents an NPS park alert
type Alert struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	ParkCode        string        `json:"parkCode"`
	Description     string        `json:"description"`
	Category        AlertCategory `json:"category"`
	URL             string        `json:"url"`
	LastIndexedDate string        `json:"lastIndexedDate"`
}

// AlertGroups buckets alerts the way the alerts dashboard shows them
type AlertGroups struct {
	Critical []Alert // Park Closure and Danger
	Warning  []Alert // Caution
	Info     []Alert // Information
}

// IsCritical returns true for closures and danger alerts
func (a *Alert) IsCritical() bool {
	return a.Category == CategoryParkClosure || a.Category == CategoryDanger
}

// Total returns the number of grouped alerts
func (g AlertGroups) Total() int {
	return len(g.Critical) + len(g.Warning) + len(g.Info)
}

// GroupAlerts splits alerts by category, keeping upstream order within each group.
// Alerts with an unknown category are dropped.
func GroupAlerts(alerts []Alert) AlertGroups {
	var g AlertGroups
	for _, a := range alerts {
		switch a.Category {
		case CategoryParkClosure, CategoryDanger:
			g.Critical = append(g.Critical, a)
		case CategoryCaution:
			g.Warning = append(g.Warning, a)
		case CategoryInformation:
			g.Info = append(g.Info, a)
		}
	}
	return g
}
