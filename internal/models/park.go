package models

import "strings"

// Image is a photo attached to a park record
type Image struct {
	Credit  string `json:"credit"`
	Title   string `json:"title"`
	AltText string `json:"altText"`
	Caption string `json:"caption"`
	URL     string `json:"url"`
}

// Address is a physical or mailing address for a park
type Address struct {
	PostalCode            string `json:"postalCode"`
	City                  string `json:"city"`
	StateCode             string `json:"stateCode"`
	CountryCode           string `json:"countryCode"`
	ProvinceTerritoryCode string `json:"provinceTerritoryCode"`
	Line1                 string `json:"line1"`
	Line2                 string `json:"line2"`
	Line3                 string `json:"line3"`
	Type                  string `json:"type"` // "Physical" or "Mailing"
}

// PhoneNumber is a contact phone number
type PhoneNumber struct {
	PhoneNumber string `json:"phoneNumber"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	Type        string `json:"type"`
}

// EmailAddress is a contact email address
type EmailAddress struct {
	Description  string `json:"description"`
	EmailAddress string `json:"emailAddress"`
}

// Contacts groups the ways to reach a park office
type Contacts struct {
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
}

// Fee is an entrance fee or pass
type Fee struct {
	Cost        string `json:"cost"`
	Description string `json:"description"`
	Title       string `json:"title"`
}

// HoursException overrides the standard hours for a date range
type HoursException struct {
	ExceptionHours map[string]string `json:"exceptionHours"`
	StartDate      string            `json:"startDate"`
	Name           string            `json:"name"`
	EndDate        string            `json:"endDate"`
}

// OperatingHours describes when a park (or a facility in it) is open
type OperatingHours struct {
	Exceptions    []HoursException  `json:"exceptions"`
	Description   string            `json:"description"`
	StandardHours map[string]string `json:"standardHours"`
	Name          string            `json:"name"`
}

// Tag is an id/name pair used for activities and topics
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Park is a park record as returned by the NPS API.
// ParkCode is the stable key used by alerts, events, favorites and comparisons.
type Park struct {
	ID             string           `json:"id"`
	URL            string           `json:"url"`
	FullName       string           `json:"fullName"`
	ParkCode       string           `json:"parkCode"`
	Description    string           `json:"description"`
	Latitude       string           `json:"latitude"`
	Longitude      string           `json:"longitude"`
	LatLong        string           `json:"latLong"`
	Activities     []Tag            `json:"activities"`
	Topics         []Tag            `json:"topics"`
	States         string           `json:"states"` // comma separated, e.g. "CA,NV"
	Contacts       Contacts         `json:"contacts"`
	EntranceFees   []Fee            `json:"entranceFees"`
	EntrancePasses []Fee            `json:"entrancePasses"`
	DirectionsInfo string           `json:"directionsInfo"`
	DirectionsURL  string           `json:"directionsUrl"`
	OperatingHours []OperatingHours `json:"operatingHours"`
	Addresses      []Address        `json:"addresses"`
	Images         []Image          `json:"images"`
	WeatherInfo    string           `json:"weatherInfo"`
	Name           string           `json:"name"`
	Designation    string           `json:"designation"`
}

// StateCodes splits the comma separated states field into trimmed codes.
// Empty entries are dropped; order and duplicates are preserved.
func (p *Park) StateCodes() []string {
	return SplitStates(p.States)
}

// HasState reports whether the park lists the given state code
func (p *Park) HasState(code string) bool {
	code = strings.TrimSpace(code)
	for _, s := range p.StateCodes() {
		if strings.EqualFold(s, code) {
			return true
		}
	}
	return false
}

// HasActivity reports whether any activity name contains term, ignoring case
func (p *Park) HasActivity(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, a := range p.Activities {
		if strings.Contains(strings.ToLower(a.Name), term) {
			return true
		}
	}
	return false
}

// PrimaryImage returns the first image, if any
func (p *Park) PrimaryImage() (Image, bool) {
	if len(p.Images) == 0 {
		return Image{}, false
	}
	return p.Images[0], true
}

// SplitStates parses a multi-valued state field: split on comma, trim, drop empties
func SplitStates(field string) []string {
	parts := strings.Split(field, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			codes = append(codes, s)
		}
	}
	return codes
}
