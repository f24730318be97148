package models

import "time"

// EventTime is one time range of an event day
type EventTime struct {
	TimeStart string `json:"timestart"` // e.g. "10:00 AM"
	TimeEnd   string `json:"timeend"`
}

// Event represents a scheduled park event or program
type Event struct {
	ID                     string      `json:"id"`
	Title                  string      `json:"title"`
	ParkFullName           string      `json:"parkfullname"`
	Description            string      `json:"description"`
	Location               string      `json:"location"`
	Latitude               string      `json:"latitude"`
	Longitude              string      `json:"longitude"`
	Category               string      `json:"category"`
	Tags                   []string    `json:"tags"`
	ContactName            string      `json:"contactname"`
	ContactEmailAddress    string      `json:"contactemailaddress"`
	ContactTelephoneNumber string      `json:"contacttelephonenumber"`
	DateStart              string      `json:"datestart"`
	DateEnd                string      `json:"dateend"`
	Times                  []EventTime `json:"times"`
	Date                   string      `json:"date"`
	ParkCode               string      `json:"parkCode"`
	SiteCode               string      `json:"sitecode"`
	Types                  []string    `json:"types"`
	RecurrenceDateStart    string      `json:"recurrencedatestart"`
	RecurrenceDateEnd      string      `json:"recurrencedateend"`
	RecurrenceRule         string      `json:"recurrencerule"`
}

const eventDateLayout = "2006-01-02"

// StartDate parses DateStart. ok is false when the field is empty or malformed.
func (e *Event) StartDate() (time.Time, bool) {
	t, err := time.Parse(eventDateLayout, e.DateStart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatStartDate renders the start date as "Mon, Jan 2, 2006", falling back to the raw value
func (e *Event) FormatStartDate() string {
	return formatEventDate(e.DateStart)
}

// DateRange renders the start date, followed by the end date when it differs
func (e *Event) DateRange() string {
	start := e.FormatStartDate()
	if e.DateEnd == "" || e.DateEnd == e.DateStart {
		return start
	}
	return start + " - " + formatEventDate(e.DateEnd)
}

func formatEventDate(raw string) string {
	if t, err := time.Parse(eventDateLayout, raw); err == nil {
		return t.Format("Mon, Jan 2, 2006")
	}
	return raw
}
