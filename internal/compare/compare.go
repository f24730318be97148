// Package compare holds the side-by-side park comparison
package compare

import (
	"errors"
	"strings"

	"github.com/ngmaloney/park-terminal/internal/models"
)

const (
	// Slots is how many parks can be compared at once
	Slots = 3
	// PickerLimit caps the filtered list offered for selection
	PickerLimit = 50

	descriptionRunes = 200
	activityCount    = 5
)

var (
	ErrFull      = errors.New("comparison already has three parks")
	ErrDuplicate = errors.New("park is already being compared")
	ErrSlot      = errors.New("no such comparison slot")
)

// Selection is a fixed set of slots, each empty or holding a park
type Selection struct {
	slots [Slots]*models.Park
}

// Add places p in the first empty slot and returns its index
func (s *Selection) Add(p models.Park) (int, error) {
	if s.Contains(p.ID) {
		return -1, ErrDuplicate
	}
	for i := range s.slots {
		if s.slots[i] == nil {
			park := p
			s.slots[i] = &park
			return i, nil
		}
	}
	return -1, ErrFull
}

// Remove empties slot i
func (s *Selection) Remove(i int) error {
	if i < 0 || i >= Slots {
		return ErrSlot
	}
	s.slots[i] = nil
	return nil
}

// Contains reports whether a park with this id is selected
func (s *Selection) Contains(id string) bool {
	for _, p := range s.slots {
		if p != nil && p.ID == id {
			return true
		}
	}
	return false
}

// Slot returns the park in slot i, or nil when empty
func (s *Selection) Slot(i int) *models.Park {
	if i < 0 || i >= Slots {
		return nil
	}
	return s.slots[i]
}

// Selected returns the chosen parks in slot order, skipping empty slots
func (s *Selection) Selected() []models.Park {
	out := make([]models.Park, 0, Slots)
	for _, p := range s.slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Len is the number of filled slots
func (s *Selection) Len() int {
	n := 0
	for _, p := range s.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// Filter keeps parks whose full name or states contain term, ignoring case.
// At most PickerLimit parks are returned.
func Filter(parks []models.Park, term string) []models.Park {
	term = strings.ToLower(term)
	out := make([]models.Park, 0, min(len(parks), PickerLimit))
	for i := range parks {
		if len(out) == PickerLimit {
			break
		}
		if strings.Contains(strings.ToLower(parks[i].FullName), term) ||
			strings.Contains(strings.ToLower(parks[i].States), term) {
			out = append(out, parks[i])
		}
	}
	return out
}

// Summary is the projection shown in a comparison column
type Summary struct {
	Name        string
	Image       string
	States      string
	Description string
	Activities  []string
	EntranceFee string
	ParkCode    string
}

// Free reports whether the park lists no entrance fee
func (s Summary) Free() bool {
	return s.EntranceFee == "N/A"
}

// Summarize builds the comparison column for p
func Summarize(p models.Park) Summary {
	s := Summary{
		Name:        p.FullName,
		States:      p.States,
		Description: truncate(p.Description, descriptionRunes) + "...",
		Activities:  make([]string, 0, activityCount),
		EntranceFee: "N/A",
		ParkCode:    p.ParkCode,
	}
	if img, ok := p.PrimaryImage(); ok {
		s.Image = img.URL
	}
	for i, a := range p.Activities {
		if i == activityCount {
			break
		}
		s.Activities = append(s.Activities, a.Name)
	}
	if len(p.EntranceFees) > 0 && p.EntranceFees[0].Cost != "" {
		s.EntranceFee = p.EntranceFees[0].Cost
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
