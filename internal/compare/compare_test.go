package compare

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ngmaloney/park-terminal/internal/models"
)

func park(id, name, states string) models.Park {
	return models.Park{ID: id, ParkCode: strings.ToLower(id), FullName: name, States: states}
}

func TestSelection_Add(t *testing.T) {
	var s Selection

	for i, p := range []models.Park{park("A", "Acadia", "ME"), park("B", "Badlands", "SD"), park("C", "Capitol Reef", "UT")} {
		idx, err := s.Add(p)
		if err != nil {
			t.Fatalf("Add(%s) error = %v", p.ID, err)
		}
		if idx != i {
			t.Errorf("Add(%s) slot = %d, want %d", p.ID, idx, i)
		}
	}

	if _, err := s.Add(park("D", "Denali", "AK")); !errors.Is(err, ErrFull) {
		t.Errorf("Add to full selection error = %v, want ErrFull", err)
	}
}

func TestSelection_RejectsDuplicate(t *testing.T) {
	var s Selection
	s.Add(park("A", "Acadia", "ME"))

	if _, err := s.Add(park("A", "Acadia", "ME")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicate", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSelection_RemoveFreesSlot(t *testing.T) {
	var s Selection
	s.Add(park("A", "Acadia", "ME"))
	s.Add(park("B", "Badlands", "SD"))
	s.Add(park("C", "Capitol Reef", "UT"))

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove(1) error = %v", err)
	}
	if s.Slot(1) != nil {
		t.Error("slot 1 should be empty")
	}
	if s.Contains("B") {
		t.Error("Contains(B) = true after removal")
	}

	// The next add lands in the freed middle slot
	idx, err := s.Add(park("D", "Denali", "AK"))
	if err != nil || idx != 1 {
		t.Errorf("Add() = %d, %v, want slot 1", idx, err)
	}

	var ids []string
	for _, p := range s.Selected() {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []string{"A", "D", "C"}) {
		t.Errorf("Selected() = %v, want [A D C]", ids)
	}

	for _, bad := range []int{-1, Slots} {
		if err := s.Remove(bad); !errors.Is(err, ErrSlot) {
			t.Errorf("Remove(%d) error = %v, want ErrSlot", bad, err)
		}
	}
}

func TestFilter(t *testing.T) {
	parks := []models.Park{
		park("1", "Yellowstone National Park", "ID,MT,WY"),
		park("2", "Grand Teton National Park", "WY"),
		park("3", "Acadia National Park", "ME"),
	}

	tests := []struct {
		name string
		term string
		want int
	}{
		{"empty keeps all", "", 3},
		{"name, any case", "yellow", 1},
		{"state code", "wy", 2},
		{"shared word", "national", 3},
		{"no match", "volcano", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filter(parks, tt.term); len(got) != tt.want {
				t.Errorf("Filter(%q) returned %d parks, want %d", tt.term, len(got), tt.want)
			}
		})
	}
}

func TestFilter_Capped(t *testing.T) {
	parks := make([]models.Park, 80)
	for i := range parks {
		parks[i] = park(fmt.Sprint(i), fmt.Sprintf("Park %d", i), "CA")
	}
	if got := Filter(parks, "ca"); len(got) != PickerLimit {
		t.Errorf("len(Filter()) = %d, want %d", len(got), PickerLimit)
	}
}

func TestSummarize(t *testing.T) {
	p := models.Park{
		FullName:    "Zion National Park",
		ParkCode:    "zion",
		States:      "UT",
		Description: strings.Repeat("é", 250),
		Images:      []models.Image{{URL: "https://example.com/zion.jpg"}, {URL: "second"}},
		Activities: []models.Tag{
			{Name: "Hiking"}, {Name: "Camping"}, {Name: "Biking"},
			{Name: "Climbing"}, {Name: "Swimming"}, {Name: "Stargazing"},
		},
		EntranceFees: []models.Fee{{Cost: "35.00"}, {Cost: "20.00"}},
	}

	s := Summarize(p)

	if s.Name != "Zion National Park" || s.ParkCode != "zion" || s.States != "UT" {
		t.Errorf("identity fields = %+v", s)
	}
	if s.Image != "https://example.com/zion.jpg" {
		t.Errorf("Image = %q, want first image", s.Image)
	}
	if got := utf8.RuneCountInString(s.Description); got != 203 {
		t.Errorf("description runes = %d, want 203", got)
	}
	if !strings.HasSuffix(s.Description, "...") {
		t.Errorf("Description = %q, want trailing ellipsis", s.Description)
	}
	if !reflect.DeepEqual(s.Activities, []string{"Hiking", "Camping", "Biking", "Climbing", "Swimming"}) {
		t.Errorf("Activities = %v", s.Activities)
	}
	if s.EntranceFee != "35.00" || s.Free() {
		t.Errorf("EntranceFee = %q, want 35.00", s.EntranceFee)
	}
}

func TestSummarize_Sparse(t *testing.T) {
	s := Summarize(models.Park{FullName: "Tiny", Description: "Short"})

	if s.Description != "Short..." {
		t.Errorf("Description = %q, want %q", s.Description, "Short...")
	}
	if s.Image != "" {
		t.Errorf("Image = %q, want empty", s.Image)
	}
	if s.Activities == nil || len(s.Activities) != 0 {
		t.Errorf("Activities = %#v, want empty slice", s.Activities)
	}
	if !s.Free() {
		t.Errorf("EntranceFee = %q, want N/A", s.EntranceFee)
	}
}
