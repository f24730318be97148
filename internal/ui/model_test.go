package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

// fakeService implements ParkService for testing
type fakeService struct {
	parks     []models.Park
	alerts    []models.Alert
	events    []models.Event
	err       error
	lastQuery nps.BrowseQuery
	lookups   []string
}

func (f *fakeService) parkResult() nps.Result[[]models.Park] {
	if f.err != nil {
		return nps.Result[[]models.Park]{Value: []models.Park{}, Status: nps.StatusError, Err: f.err}
	}
	return nps.Result[[]models.Park]{Value: f.parks, Status: nps.StatusOK}
}

func (f *fakeService) Browse(ctx context.Context, q nps.BrowseQuery) nps.Listing {
	f.lastQuery = q
	title := "All National Parks"
	if q.Search != "" {
		title = "Search Results"
	}
	return nps.Listing{Title: title, Parks: f.parkResult()}
}

func (f *fakeService) Detail(ctx context.Context, code string) nps.Detail {
	return nps.Detail{
		Park:   f.ParkByCode(ctx, code),
		Alerts: nps.Result[[]models.Alert]{Value: f.alerts},
		Events: nps.Result[[]models.Event]{Value: f.events},
	}
}

func (f *fakeService) Alerts(ctx context.Context, parkCode string) nps.Result[[]models.Alert] {
	if f.err != nil {
		return nps.Result[[]models.Alert]{Value: []models.Alert{}, Status: nps.StatusError, Err: f.err}
	}
	return nps.Result[[]models.Alert]{Value: f.alerts, Status: nps.StatusOK}
}

func (f *fakeService) Parks(ctx context.Context, stateCode string, limit int) nps.Result[[]models.Park] {
	return f.parkResult()
}

func (f *fakeService) ParkByCode(ctx context.Context, code string) nps.Result[*models.Park] {
	f.lookups = append(f.lookups, code)
	if f.err != nil {
		return nps.Result[*models.Park]{Status: nps.StatusError, Err: f.err}
	}
	for i := range f.parks {
		if f.parks[i].ParkCode == code {
			p := f.parks[i]
			return nps.Result[*models.Park]{Value: &p, Status: nps.StatusOK}
		}
	}
	return nps.Result[*models.Park]{Status: nps.StatusEmpty}
}

// memFavorites implements FavoriteStore in memory
type memFavorites struct {
	codes []string
}

func (m *memFavorites) List() ([]string, error) {
	return append([]string{}, m.codes...), nil
}

func (m *memFavorites) Contains(code string) (bool, error) {
	for _, c := range m.codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFavorites) Toggle(code string) (bool, error) {
	for i, c := range m.codes {
		if c == code {
			m.codes = append(m.codes[:i], m.codes[i+1:]...)
			return false, nil
		}
	}
	m.codes = append(m.codes, code)
	return true, nil
}

func (m *memFavorites) Clear() error {
	m.codes = nil
	return nil
}

func testParks() []models.Park {
	return []models.Park{
		{ID: "1", ParkCode: "acad", FullName: "Acadia National Park", States: "ME", Description: "Rocky coast.",
			Activities: []models.Tag{{Name: "Hiking"}}, EntranceFees: []models.Fee{{Cost: "35.00", Title: "Private Vehicle"}}},
		{ID: "2", ParkCode: "yell", FullName: "Yellowstone National Park", States: "ID,MT,WY", Description: "Geysers."},
		{ID: "3", ParkCode: "zion", FullName: "Zion National Park", States: "UT"},
	}
}

func newTestModel(svc *fakeService, favs *memFavorites) Model {
	var store FavoriteStore
	if favs != nil {
		store = favs
	}
	m := NewModel(svc, store, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// runCmd executes cmd and returns the first message that is not a spinner tick
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			inner := c()
			if _, tick := inner.(spinner.TickMsg); tick {
				continue
			}
			if _, nested := inner.(tea.BatchMsg); nested {
				return runCmd(t, func() tea.Msg { return inner })
			}
			return inner
		}
		t.Fatal("batch held only spinner ticks")
		return nil
	default:
		return msg
	}
}

// step feeds msg to m and returns the updated model and command
func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = step(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// loaded runs Init and delivers the listing
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = step(m, runCmd(t, m.Init()))
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(&fakeService{}, nil, Options{})

	if m.state != StateLoading {
		t.Errorf("NewModel() state = %v, want StateLoading", m.state)
	}
	if m.Init() == nil {
		t.Error("Init() should start fetching")
	}
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before sizing = %q", got)
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)

	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
}

func TestModel_Update_ErrorMsg(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)

	m, _ = step(m, errMsg{err: errors.New("boom")})

	if m.state != StateError {
		t.Errorf("After errMsg, state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("error view missing message:\n%s", m.View())
	}
}

func TestModel_CtrlC_Quits(t *testing.T) {
	m := newTestModel(&fakeService{}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected Ctrl+C to return quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C command should produce tea.QuitMsg")
	}
}

func TestModel_ListingLoaded(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	favs := &memFavorites{codes: []string{"yell"}}
	m := loaded(t, newTestModel(svc, favs))

	if m.state != StateBrowse {
		t.Fatalf("state = %v, want StateBrowse", m.state)
	}
	items := m.parkList.Items()
	if len(items) != 3 {
		t.Fatalf("list has %d items, want 3", len(items))
	}
	if !items[1].(parkItem).favorite || items[0].(parkItem).favorite {
		t.Error("only yell should be starred")
	}
	if !strings.Contains(m.View(), "Acadia National Park") {
		t.Errorf("browse view missing park:\n%s", m.View())
	}
}

func TestModel_MissingAPIKey(t *testing.T) {
	svc := &fakeService{err: nps.ErrMissingAPIKey}
	m := loaded(t, newTestModel(svc, nil))

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "NPS_API_KEY") {
		t.Errorf("error view should name the env var:\n%s", m.View())
	}
}

func TestModel_UpstreamFailureShowsNotice(t *testing.T) {
	svc := &fakeService{err: errors.New("503 Service Unavailable")}
	m := loaded(t, newTestModel(svc, nil))

	if m.state != StateBrowse {
		t.Fatalf("state = %v, want StateBrowse", m.state)
	}
	if !strings.Contains(m.View(), "Could not load parks") {
		t.Errorf("browse view should explain the failure:\n%s", m.View())
	}
}

func TestModel_OpenParkAndBack(t *testing.T) {
	svc := &fakeService{
		parks:  testParks(),
		alerts: []models.Alert{{ID: "a", Title: "Road closed", Category: models.CategoryParkClosure}},
		events: []models.Event{{ID: "e", Title: "Ranger Walk", DateStart: "2025-07-04"}},
	}
	m := loaded(t, newTestModel(svc, &memFavorites{}))

	m, cmd := step(m, key("enter"))
	if m.state != StateLoading {
		t.Fatalf("state = %v, want StateLoading", m.state)
	}
	m, _ = step(m, runCmd(t, cmd))

	if m.state != StateDetail || m.detailCode != "acad" {
		t.Fatalf("state = %v code = %q, want detail of acad", m.state, m.detailCode)
	}
	view := m.View()
	for _, want := range []string{"Acadia National Park", "Road closed", "Ranger Walk", "Fri, Jul 4, 2025", "$35.00"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	m, _ = step(m, key("esc"))
	if m.state != StateBrowse {
		t.Errorf("after esc state = %v, want StateBrowse", m.state)
	}
}

func TestModel_ToggleFavorite(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	favs := &memFavorites{}
	m := NewModel(svc, favs, Options{ParkCode: "zion"})
	m, _ = step(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = loaded(t, m)

	if m.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", m.state)
	}

	_, cmd := step(m, key("f"))
	m, _ = step(m, runCmd(t, cmd))
	if !m.isFavorite {
		t.Error("isFavorite = false after first toggle")
	}
	if ok, _ := favs.Contains("zion"); !ok {
		t.Error("store should contain zion")
	}
	if !strings.Contains(m.View(), "Favorite") {
		t.Error("detail view should mark the favorite")
	}

	_, cmd = step(m, key("f"))
	m, _ = step(m, runCmd(t, cmd))
	if m.isFavorite || len(favs.codes) != 0 {
		t.Errorf("second toggle should restore the empty set, got %v", favs.codes)
	}
}

func TestModel_DetailNotFound(t *testing.T) {
	m := NewModel(&fakeService{parks: testParks()}, nil, Options{ParkCode: "nope"})
	m, _ = step(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = loaded(t, m)

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), `no park found with code "nope"`) {
		t.Errorf("error view:\n%s", m.View())
	}
}

func TestModel_Search(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	m := loaded(t, newTestModel(svc, nil))

	m, _ = step(m, key("s"))
	if m.state != StateSearch || !m.searchInput.Focused() {
		t.Fatalf("state = %v, want focused StateSearch", m.state)
	}

	m = typeText(m, "geysers")
	if m.searchInput.Value() != "geysers" {
		t.Errorf("search input = %q", m.searchInput.Value())
	}

	m, cmd := step(m, key("enter"))
	if m.state != StateLoading {
		t.Fatalf("state = %v, want StateLoading", m.state)
	}
	m, _ = step(m, runCmd(t, cmd))

	if svc.lastQuery.Search != "geysers" {
		t.Errorf("Browse query = %+v, want search geysers", svc.lastQuery)
	}
	if m.state != StateBrowse || m.listing.Title != "Search Results" {
		t.Errorf("state = %v title = %q", m.state, m.listing.Title)
	}
}

func TestModel_SearchEscAndEmptyEnter(t *testing.T) {
	m := loaded(t, newTestModel(&fakeService{parks: testParks()}, nil))
	m, _ = step(m, key("s"))

	m, cmd := step(m, key("enter"))
	if m.state != StateSearch || cmd != nil {
		t.Error("empty search should do nothing")
	}

	m, _ = step(m, key("esc"))
	if m.state != StateBrowse {
		t.Errorf("state = %v after esc, want StateBrowse", m.state)
	}
}

func TestModel_AlertsDashboard(t *testing.T) {
	svc := &fakeService{
		parks: testParks(),
		alerts: []models.Alert{
			{ID: "1", Title: "Bridge out", Category: models.CategoryDanger, ParkCode: "yell"},
			{ID: "2", Title: "Ice on trail", Category: models.CategoryCaution},
			{ID: "3", Title: "Visitor center hours", Category: models.CategoryInformation},
			{ID: "4", Title: "Shuttle running", Category: models.CategoryInformation},
		},
	}
	m := loaded(t, newTestModel(svc, nil))

	_, cmd := step(m, key("a"))
	m, _ = step(m, runCmd(t, cmd))

	if m.state != StateAlerts {
		t.Fatalf("state = %v, want StateAlerts", m.state)
	}
	view := m.View()
	for _, want := range []string{"Critical Alerts (1)", "Bridge out", "[YELL]", "Caution Alerts (1)", "2 Informational Updates"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q:\n%s", want, view)
		}
	}

	m, _ = step(m, key("esc"))
	if m.state != StateBrowse {
		t.Errorf("state = %v after esc, want StateBrowse", m.state)
	}
}

func TestModel_Favorites(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	favs := &memFavorites{codes: []string{"zion", "acad"}}
	m := loaded(t, newTestModel(svc, favs))

	_, cmd := step(m, key("v"))
	m, _ = step(m, runCmd(t, cmd))

	if m.state != StateFavorites {
		t.Fatalf("state = %v, want StateFavorites", m.state)
	}
	items := m.favoriteList.Items()
	if len(items) != 2 || items[0].(parkItem).park.ParkCode != "zion" {
		t.Fatalf("favorites = %v, want zion then acad", items)
	}

	// Remove the highlighted park
	_, cmd = step(m, key("d"))
	m, _ = step(m, runCmd(t, cmd))
	if len(m.favoriteList.Items()) != 1 {
		t.Errorf("favorites after remove = %d, want 1", len(m.favoriteList.Items()))
	}

	// Clear needs confirmation
	m, _ = step(m, key("C"))
	if !m.confirmClear || !strings.Contains(m.View(), "Confirm clearing favorites?") {
		t.Fatal("expected a confirmation prompt")
	}
	m, cmd = step(m, key("y"))
	m, _ = step(m, runCmd(t, cmd))
	if len(favs.codes) != 0 || len(m.favoriteList.Items()) != 0 {
		t.Errorf("favorites not cleared: store %v list %d", favs.codes, len(m.favoriteList.Items()))
	}
}

func TestFetchFavorites_LooksUpMissingParks(t *testing.T) {
	svc := &fakeService{parks: testParks()[:1]}
	favs := &memFavorites{codes: []string{"acad", "gone"}}

	msg := fetchFavorites(svc, favs)().(favoritesLoadedMsg)

	if msg.err != nil {
		t.Fatalf("err = %v", msg.err)
	}
	if len(msg.parks) != 1 || msg.parks[0].ParkCode != "acad" {
		t.Errorf("parks = %+v, want acad only", msg.parks)
	}
	if len(svc.lookups) != 1 || svc.lookups[0] != "gone" {
		t.Errorf("lookups = %v, want [gone]", svc.lookups)
	}
}

func TestModel_FavoritesUnavailable(t *testing.T) {
	m := loaded(t, newTestModel(&fakeService{parks: testParks()}, nil))

	m, cmd := step(m, key("v"))
	if cmd != nil || m.state != StateBrowse {
		t.Error("favorites should be a no-op without a store")
	}
	if !strings.Contains(m.View(), "Favorites are unavailable") {
		t.Error("expected an explanation in the status line")
	}
}

func TestModel_Compare(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	m := loaded(t, newTestModel(svc, nil))

	_, cmd := step(m, key("c"))
	m, _ = step(m, runCmd(t, cmd))
	if m.state != StateCompare {
		t.Fatalf("state = %v, want StateCompare", m.state)
	}

	// Filter down to Utah and add Zion
	m = typeText(m, "ut")
	if got := m.picks(); len(got) != 1 || got[0].ParkCode != "zion" {
		t.Fatalf("picks = %+v, want zion", got)
	}
	m, _ = step(m, key("enter"))
	if !m.selection.Contains("3") {
		t.Fatal("zion should be selected")
	}

	// Adding it again is rejected
	m, _ = step(m, key("enter"))
	if m.selection.Len() != 1 {
		t.Errorf("Len() = %d after duplicate add, want 1", m.selection.Len())
	}

	if !strings.Contains(m.View(), "Zion National Park") {
		t.Error("compare view should show the selected park")
	}

	// Slots: clear slot 1
	m, _ = step(m, key("tab"))
	if !m.slotsFocused {
		t.Fatal("tab should focus the slots")
	}
	m, _ = step(m, key("1"))
	if m.selection.Len() != 0 {
		t.Errorf("Len() = %d after clearing slot 1, want 0", m.selection.Len())
	}
}

func TestModel_AddToCompareFromDetail(t *testing.T) {
	svc := &fakeService{parks: testParks()}
	m := loaded(t, newTestModel(svc, nil))

	_, cmd := step(m, key("enter"))
	m, _ = step(m, runCmd(t, cmd))
	m, _ = step(m, key("x"))

	if !m.selection.Contains("1") {
		t.Error("acad should be in the comparison")
	}
	if !strings.Contains(m.View(), "Added to comparison (1 of 3)") {
		t.Errorf("missing status:\n%s", m.View())
	}
}
