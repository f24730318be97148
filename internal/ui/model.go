package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/park-terminal/internal/compare"
	"github.com/ngmaloney/park-terminal/internal/config"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading   AppState = iota // Waiting on the NPS API
	StateBrowse                    // Park list
	StateSearch                    // Free-text search input
	StateDetail                    // One park with its alerts and events
	StateAlerts                    // Alerts dashboard across all parks
	StateFavorites                 // Saved parks
	StateCompare                   // Side-by-side comparison
	StateError                     // Error state
)

// comparePicks is how many filtered parks the compare picker shows at once
const comparePicks = 8

// ParkService is the subset of nps.Service the UI drives
type ParkService interface {
	Browse(ctx context.Context, q nps.BrowseQuery) nps.Listing
	Detail(ctx context.Context, parkCode string) nps.Detail
	Alerts(ctx context.Context, parkCode string) nps.Result[[]models.Alert]
	Parks(ctx context.Context, stateCode string, limit int) nps.Result[[]models.Park]
	ParkByCode(ctx context.Context, parkCode string) nps.Result[*models.Park]
}

// FavoriteStore persists favorite park codes
type FavoriteStore interface {
	List() ([]string, error)
	Contains(code string) (bool, error)
	Toggle(code string) (bool, error)
	Clear() error
}

// Options selects the first screen
type Options struct {
	Query    nps.BrowseQuery
	ParkCode string // open this park instead of a listing
}

// Model represents the application's state
type Model struct {
	state  AppState
	back   AppState // where Esc returns to from a park page
	width  int
	height int
	err    error
	notice string // non-fatal problem with the data on screen
	status string // feedback for the last action

	service   ParkService
	favorites FavoriteStore // nil disables favorites
	startCode string

	// Browse and search
	query       nps.BrowseQuery
	listing     nps.Listing
	parkList    list.Model
	searchInput textinput.Model

	// Park page
	detail     nps.Detail
	detailCode string
	isFavorite bool
	detailView viewport.Model

	alertGroups models.AlertGroups

	// Favorites
	favoriteList list.Model
	confirmClear bool

	// Compare
	selection     compare.Selection
	comparePool   []models.Park
	compareInput  textinput.Model
	compareCursor int
	slotsFocused  bool

	spinner     spinner.Model
	loadingWhat string
}

// NewModel creates a new application model
func NewModel(service ParkService, favorites FavoriteStore, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search parks (e.g. canyon, geysers, Acadia)..."
	ti.CharLimit = 100
	ti.Width = 60

	ci := textinput.New()
	ci.Placeholder = "Filter parks by name or state..."
	ci.CharLimit = 100
	ci.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	loading := "Loading parks"
	if opts.ParkCode != "" {
		loading = "Loading " + strings.ToUpper(opts.ParkCode)
	}

	return Model{
		state:        StateLoading,
		back:         StateBrowse,
		service:      service,
		favorites:    favorites,
		startCode:    opts.ParkCode,
		query:        opts.Query,
		searchInput:  ti,
		compareInput: ci,
		spinner:      s,
		loadingWhat:  loading,
	}
}

// Init starts the first fetch
func (m Model) Init() tea.Cmd {
	if m.startCode != "" {
		return tea.Batch(m.spinner.Tick, fetchDetail(m.service, m.favorites, m.startCode))
	}
	return tea.Batch(m.spinner.Tick, browse(m.service, m.favorites, m.query))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listingLoadedMsg:
		return m.onListing(msg)

	case detailLoadedMsg:
		return m.onDetail(msg)

	case alertsLoadedMsg:
		m.alertGroups = models.GroupAlerts(msg.alerts.Value)
		m.notice = failureNotice("alerts", msg.alerts.Err)
		m.state = StateAlerts
		return m, nil

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.favoriteList = createParkList("Favorite Parks", msg.parks, msg.codes, m.listWidth(), m.listHeight())
		m.confirmClear = false
		m.state = StateFavorites
		return m, nil

	case favoriteToggledMsg:
		return m.onFavoriteToggled(msg)

	case favoritesClearedMsg:
		m.confirmClear = false
		if msg.err != nil {
			m.status = errorStyle.Render("✗ " + msg.err.Error())
			return m, nil
		}
		m.favoriteList.SetItems(nil)
		m.isFavorite = false
		m.status = successStyle.Render("✓ Favorites cleared")
		return m, nil

	case comparePoolLoadedMsg:
		m.comparePool = msg.parks.Value
		m.notice = failureNotice("parks", msg.parks.Err)
		m.compareCursor = 0
		m.slotsFocused = false
		m.state = StateCompare
		cmd := m.compareInput.Focus()
		return m, cmd
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.state {
		case StateBrowse:
			return m.handleBrowse(keyMsg)
		case StateSearch:
			return m.handleSearchInput(keyMsg)
		case StateDetail:
			return m.handleDetail(keyMsg)
		case StateAlerts:
			return m.handleAlerts(keyMsg)
		case StateFavorites:
			return m.handleFavorites(keyMsg)
		case StateCompare:
			return m.handleCompare(keyMsg)
		case StateError:
			// Any key returns to the park list (except quit keys)
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			m.err = nil
			if m.listing.Title == "" {
				return m.load("Loading parks", browse(m.service, m.favorites, m.query))
			}
			m.state = StateBrowse
			return m, nil
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateBrowse:
		m.parkList, cmd = m.parkList.Update(msg)
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case StateFavorites:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	case StateCompare:
		m.compareInput, cmd = m.compareInput.Update(msg)
	}

	return m, cmd
}

func (m Model) onListing(msg listingLoadedMsg) (tea.Model, tea.Cmd) {
	parks := msg.listing.Parks
	if errors.Is(parks.Err, nps.ErrMissingAPIKey) {
		m.err = fmt.Errorf("%w: set %s or nps.api_key in the config file", parks.Err, config.APIKeyEnv)
		m.state = StateError
		return m, nil
	}

	m.listing = msg.listing
	m.parkList = createParkList(msg.listing.Title, parks.Value, msg.favorites, m.listWidth(), m.listHeight())
	m.notice = failureNotice("parks", parks.Err)
	m.status = ""
	m.state = StateBrowse
	return m, nil
}

func (m Model) onDetail(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	d := msg.detail
	if !d.Found() {
		switch {
		case errors.Is(d.Park.Err, nps.ErrMissingAPIKey):
			m.err = fmt.Errorf("%w: set %s or nps.api_key in the config file", d.Park.Err, config.APIKeyEnv)
		case d.Park.Failed():
			m.err = fmt.Errorf("loading park %s: %w", msg.code, d.Park.Err)
		default:
			m.err = fmt.Errorf("no park found with code %q", msg.code)
		}
		m.state = StateError
		return m, nil
	}

	m.detail = d
	m.detailCode = d.Park.Value.ParkCode
	m.isFavorite = msg.favorite
	m.status = ""
	m.notice = ""
	m.detailView = viewport.New(m.listWidth(), m.detailHeight())
	m.detailView.SetContent(renderParkDetail(d, m.isFavorite, m.width))
	m.state = StateDetail
	return m, nil
}

func (m Model) onFavoriteToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = errorStyle.Render("✗ " + msg.err.Error())
		return m, nil
	}

	if msg.code == m.detailCode {
		m.isFavorite = msg.added
		m.detailView.SetContent(renderParkDetail(m.detail, m.isFavorite, m.width))
	}
	if msg.added {
		m.status = successStyle.Render("★ Added to favorites")
	} else {
		m.status = mutedStyle.Render("Removed from favorites")
	}

	if m.state == StateFavorites && !msg.added {
		for i, item := range m.favoriteList.Items() {
			if p, ok := item.(parkItem); ok && p.park.ParkCode == msg.code {
				m.favoriteList.RemoveItem(i)
				break
			}
		}
	}
	return m, nil
}

// load switches to the loading screen while cmd runs
func (m Model) load(what string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.state = StateLoading
	m.loadingWhat = what
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m Model) openPark(p models.Park, from AppState) (tea.Model, tea.Cmd) {
	m.back = from
	return m.load("Loading "+p.FullName, fetchDetail(m.service, m.favorites, p.ParkCode))
}

// handleBrowse handles keyboard input in the park list
func (m Model) handleBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// While typing a filter every key belongs to the list
	if m.parkList.FilterState() == list.Filtering {
		m.parkList, cmd = m.parkList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		if p, ok := selectedPark(m.parkList); ok {
			return m.openPark(p, StateBrowse)
		}
		return m, nil
	case "s":
		m.state = StateSearch
		m.searchInput.SetValue("")
		cmd := m.searchInput.Focus()
		return m, cmd
	case "a":
		return m.load("Loading alerts", fetchAlerts(m.service))
	case "v":
		if m.favorites == nil {
			m.status = mutedStyle.Render("Favorites are unavailable")
			return m, nil
		}
		return m.load("Loading favorites", fetchFavorites(m.service, m.favorites))
	case "c":
		return m.load("Loading parks to compare", fetchComparePool(m.service))
	case "r":
		return m.load("Loading parks", browse(m.service, m.favorites, m.query))
	case "esc":
		if m.parkList.FilterState() == list.Unfiltered && m.query != (nps.BrowseQuery{}) {
			m.query = nps.BrowseQuery{}
			return m.load("Loading parks", browse(m.service, m.favorites, m.query))
		}
	}

	m.parkList, cmd = m.parkList.Update(msg)
	return m, cmd
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.query = nps.BrowseQuery{Search: query}
		return m.load(fmt.Sprintf("Searching for %q", query), browse(m.service, m.favorites, m.query))
	case tea.KeyEsc:
		m.searchInput.Blur()
		m.state = StateBrowse
		return m, nil
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleDetail handles keyboard input on a park page
func (m Model) handleDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.goBack()
	case "f":
		if m.favorites == nil {
			m.status = mutedStyle.Render("Favorites are unavailable")
			return m, nil
		}
		return m, toggleFavorite(m.favorites, m.detailCode)
	case "x":
		if _, err := m.selection.Add(*m.detail.Park.Value); err != nil {
			m.status = mutedStyle.Render(err.Error())
		} else {
			m.status = successStyle.Render(fmt.Sprintf("✓ Added to comparison (%d of %d)", m.selection.Len(), compare.Slots))
		}
		return m, nil
	case "r":
		return m.load("Loading "+m.detail.Park.Value.FullName, fetchDetail(m.service, m.favorites, m.detailCode))
	}

	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

// goBack leaves the park page for the screen it was opened from
func (m Model) goBack() (tea.Model, tea.Cmd) {
	switch m.back {
	case StateFavorites:
		if m.favorites != nil {
			return m.load("Loading favorites", fetchFavorites(m.service, m.favorites))
		}
	case StateCompare:
		m.state = StateCompare
		cmd := m.compareInput.Focus()
		return m, cmd
	}
	if m.listing.Title == "" {
		return m.load("Loading parks", browse(m.service, m.favorites, m.query))
	}
	m.state = StateBrowse
	return m, nil
}

// handleAlerts handles keyboard input on the alerts dashboard
func (m Model) handleAlerts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m.load("Loading alerts", fetchAlerts(m.service))
	case "esc", "backspace":
		m.notice = ""
		if m.listing.Title == "" {
			return m.load("Loading parks", browse(m.service, m.favorites, m.query))
		}
		m.state = StateBrowse
	}
	return m, nil
}

// handleFavorites handles keyboard input in the favorites list
func (m Model) handleFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.confirmClear {
		m.confirmClear = false
		if msg.String() == "y" {
			return m, clearFavorites(m.favorites)
		}
		return m, nil
	}

	if m.favoriteList.FilterState() == list.Filtering {
		m.favoriteList, cmd = m.favoriteList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.favoriteList.FilterState() == list.Unfiltered {
			m.status = ""
			if m.listing.Title == "" {
				return m.load("Loading parks", browse(m.service, m.favorites, m.query))
			}
			m.state = StateBrowse
			return m, nil
		}
	case "enter":
		if p, ok := selectedPark(m.favoriteList); ok {
			return m.openPark(p, StateFavorites)
		}
		return m, nil
	case "d":
		if p, ok := selectedPark(m.favoriteList); ok {
			return m, toggleFavorite(m.favorites, p.ParkCode)
		}
		return m, nil
	case "C":
		if len(m.favoriteList.Items()) > 0 {
			m.confirmClear = true
		}
		return m, nil
	}

	m.favoriteList, cmd = m.favoriteList.Update(msg)
	return m, cmd
}

// handleCompare handles keyboard input on the comparison screen.
// Tab moves focus between the picker and the slots.
func (m Model) handleCompare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyTab {
		m.slotsFocused = !m.slotsFocused
		if m.slotsFocused {
			m.compareInput.Blur()
			return m, nil
		}
		cmd := m.compareInput.Focus()
		return m, cmd
	}

	if m.slotsFocused {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.slotsFocused = false
			cmd := m.compareInput.Focus()
			return m, cmd
		case "1", "2", "3":
			slot := int(msg.String()[0] - '1')
			if m.selection.Slot(slot) != nil {
				m.selection.Remove(slot)
				m.status = mutedStyle.Render(fmt.Sprintf("Cleared slot %d", slot+1))
			}
		case "enter":
			// Open the first filled slot
			if parks := m.selection.Selected(); len(parks) > 0 {
				return m.openPark(parks[0], StateCompare)
			}
		}
		return m, nil
	}

	picks := m.picks()
	switch msg.Type {
	case tea.KeyEsc:
		m.compareInput.Blur()
		m.status = ""
		m.notice = ""
		if m.listing.Title == "" {
			return m.load("Loading parks", browse(m.service, m.favorites, m.query))
		}
		m.state = StateBrowse
		return m, nil
	case tea.KeyUp:
		if m.compareCursor > 0 {
			m.compareCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.compareCursor < len(picks)-1 {
			m.compareCursor++
		}
		return m, nil
	case tea.KeyEnter:
		if m.compareCursor < len(picks) {
			p := picks[m.compareCursor]
			if _, err := m.selection.Add(p); err != nil {
				m.status = mutedStyle.Render(err.Error())
			} else {
				m.status = successStyle.Render("✓ Added " + p.FullName)
			}
		}
		return m, nil
	}

	before := m.compareInput.Value()
	m.compareInput, cmd = m.compareInput.Update(msg)
	if m.compareInput.Value() != before {
		m.compareCursor = 0
	}
	return m, cmd
}

// picks is the filtered compare pool
func (m Model) picks() []models.Park {
	return compare.Filter(m.comparePool, strings.TrimSpace(m.compareInput.Value()))
}

func (m *Model) resize() {
	if m.parkList.Items() != nil {
		m.parkList.SetSize(m.listWidth(), m.listHeight())
	}
	if m.favoriteList.Items() != nil {
		m.favoriteList.SetSize(m.listWidth(), m.listHeight())
	}
	if m.state == StateDetail {
		m.detailView.Width = m.listWidth()
		m.detailView.Height = m.detailHeight()
		m.detailView.SetContent(renderParkDetail(m.detail, m.isFavorite, m.width))
	}
}

func (m Model) listWidth() int {
	return max(m.width-4, 20)
}

func (m Model) listHeight() int {
	return max(m.height-8, 5)
}

func (m Model) detailHeight() int {
	return max(m.height-4, 5)
}

// failureNotice describes a query that fell back after an error
func failureNotice(what string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Could not load %s from the NPS API: %v", what, err)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateBrowse:
		return m.viewBrowse()
	case StateSearch:
		return m.viewSearch()
	case StateDetail:
		return m.viewDetail()
	case StateAlerts:
		return m.viewAlerts()
	case StateFavorites:
		return m.viewFavorites()
	case StateCompare:
		return m.viewCompare()
	case StateError:
		return m.viewError()
	}

	return ""
}

func (m Model) header(subtitle string) []string {
	sections := []string{titleStyle.Render("🏞  Park Terminal")}
	if subtitle != "" {
		sections = append(sections, mutedStyle.Render(subtitle))
	}
	if m.notice != "" {
		sections = append(sections, errorStyle.Render("✗ "+m.notice))
	}
	return append(sections, "")
}

func (m Model) footer(sections []string, help string) string {
	if m.status != "" {
		sections = append(sections, "", m.status)
	}
	sections = append(sections, helpStyle.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	return fmt.Sprintf("\n %s %s...\n", m.spinner.View(), m.loadingWhat)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Press any key to return to the park list • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

func (m Model) viewBrowse() string {
	sections := m.header("National Park Service parks, alerts & events")
	if len(m.parkList.Items()) == 0 && m.notice == "" {
		sections = append(sections, titleStyle.Render(m.listing.Title), "", mutedStyle.Render("No parks found"))
	} else {
		sections = append(sections, m.parkList.View())
	}
	return m.footer(sections, "↑/↓: Navigate • Enter: Open • /: Filter • S: Search • A: Alerts • V: Favorites • C: Compare • Esc: All parks • Q: Quit")
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	sections := m.header("Search by name, description or keyword")
	sections = append(sections,
		inputBoxStyle.Render(m.searchInput.View()),
		"",
		mutedStyle.Render("Examples: geysers | Grand Canyon | lighthouse | Alaska"),
	)
	return m.footer(sections, "Enter: Search • Esc: Back")
}

func (m Model) viewDetail() string {
	sections := []string{m.detailView.View()}
	return m.footer(sections, "↑/↓: Scroll • F: Toggle favorite • X: Add to compare • R: Refresh • Esc: Back • Q: Quit")
}

func (m Model) viewAlerts() string {
	sections := m.header("Alerts Dashboard")
	sections = append(sections, renderAlertDashboard(m.alertGroups))
	return m.footer(sections, "R: Refresh • Esc: Back • Q: Quit")
}

func (m Model) viewFavorites() string {
	sections := m.header("Your favorite parks")
	if len(m.favoriteList.Items()) == 0 {
		sections = append(sections, mutedStyle.Render("No favorites yet. Press F on a park page to add one."))
	} else {
		sections = append(sections, m.favoriteList.View())
	}
	if m.confirmClear {
		sections = append(sections, "", errorStyle.Render("Confirm clearing favorites? (y/N)"))
	}
	return m.footer(sections, "Enter: Open • D: Remove • C: Clear all • /: Filter • Esc: Back • Q: Quit")
}

func (m Model) viewCompare() string {
	sections := m.header(fmt.Sprintf("Compare Parks (%d of %d selected)", m.selection.Len(), compare.Slots))
	sections = append(sections, renderCompareColumns(&m.selection), "")

	if m.slotsFocused {
		sections = append(sections, mutedStyle.Render("Press 1, 2 or 3 to clear a slot"))
		return m.footer(sections, "1-3: Clear slot • Enter: Open first park • Tab: Picker • Esc: Picker • Q: Quit")
	}

	sections = append(sections, inputBoxStyle.Render(m.compareInput.View()))

	picks := m.picks()
	if len(picks) == 0 {
		sections = append(sections, mutedStyle.Render("No matching parks"))
	}
	start := 0
	if m.compareCursor >= comparePicks {
		start = m.compareCursor - comparePicks + 1
	}
	for i := start; i < len(picks) && i < start+comparePicks; i++ {
		p := picks[i]
		line := fmt.Sprintf("%s (%s)", p.FullName, p.States)
		switch {
		case m.selection.Contains(p.ID):
			line = mutedStyle.Render("  ✓ " + line)
		case i == m.compareCursor:
			line = titleStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		sections = append(sections, line)
	}
	return m.footer(sections, "Type to filter • ↑/↓: Move • Enter: Add • Tab: Slots • Esc: Back")
}
