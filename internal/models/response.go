package models

// Response is the NPS API list envelope. Counts are strings upstream.
type Response[T any] struct {
	Total string `json:"total"`
	Data  []T    `json:"data"`
	Limit string `json:"limit"`
	Start string `json:"start"`
}
