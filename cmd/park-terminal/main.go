package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/ngmaloney/park-terminal/internal/boundaries"
	"github.com/ngmaloney/park-terminal/internal/config"
	"github.com/ngmaloney/park-terminal/internal/database"
	"github.com/ngmaloney/park-terminal/internal/favorites"
	"github.com/ngmaloney/park-terminal/internal/geocoding"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
	"github.com/ngmaloney/park-terminal/internal/ui"
)

type options struct {
	configPath string
	plain      bool
	query      nps.BrowseQuery
	parkCode   string
	alerts     bool
	featured   bool
	states     bool
	favorites  bool
	near       string
	radius     float64
	toggle     string
}

// oneShot reports flags that only make sense as plain output
func (o options) oneShot() bool {
	return o.toggle != "" || o.near != "" || o.featured || o.states
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flag.BoolVar(&opts.plain, "plain", false, "Print plain text instead of starting the interactive UI")
	flag.StringVar(&opts.query.State, "state", "", "List parks in a state (e.g., CA)")
	flag.StringVar(&opts.query.Search, "search", "", "Search parks by name or keyword")
	flag.StringVar(&opts.query.Activity, "activity", "", "Only show parks offering an activity (e.g., hiking)")
	flag.StringVar(&opts.parkCode, "park", "", "Open a park by its code (e.g., yose)")
	flag.BoolVar(&opts.alerts, "alerts", false, "Show current alerts for all parks")
	flag.BoolVar(&opts.favorites, "favorites", false, "Show favorite parks")
	flag.BoolVar(&opts.featured, "featured", false, "Show a few featured parks and the latest alerts")
	flag.BoolVar(&opts.states, "states", false, "List the state codes that have parks")
	flag.StringVar(&opts.near, "near", "", "Find parks at lat,lon or a place such as \"Moab, UT\" (requires boundaries.source)")
	flag.Float64Var(&opts.radius, "radius", 50, "Search radius in miles for -near")
	flag.StringVar(&opts.toggle, "toggle", "", "Add or remove a park code from favorites and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	plain := opts.plain || opts.oneShot() || !term.IsTerminal(int(os.Stdout.Fd()))

	// The interactive UI owns the terminal; without a log file, logs are dropped
	var fallback io.Writer = os.Stderr
	if !plain {
		fallback = io.Discard
	}
	logger, closeLog, err := cfg.Log.NewLogger(fallback)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := cfg.Validate(); errors.Is(err, config.ErrMissingAPIKey) {
		logger.Warn("NPS API key not configured; park data will be unavailable", "env", config.APIKeyEnv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := nps.NewService(nps.NewClient(cfg.NPS, nps.WithLogger(logger)))

	db, err := database.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Error("failed to open database, favorites disabled", "path", cfg.Storage.DBPath, "error", err)
	} else {
		defer db.Close()
	}

	var store *favorites.Store
	if db != nil {
		if store, err = favorites.NewStore(db); err != nil {
			logger.Error("failed to prepare favorites", "error", err)
			store = nil
		} else {
			store.SetLogger(logger)
		}
	}

	if opts.near != "" {
		return printNearby(ctx, os.Stdout, db, cfg.Boundaries.Source, geocoding.NewGeocoder(""), opts.near, opts.radius)
	}
	if opts.toggle != "" {
		return toggleFavorite(os.Stdout, store, opts.toggle)
	}
	if plain {
		return printPlain(ctx, os.Stdout, service, store, opts)
	}

	// Pass a nil interface, not a nil *Store, when favorites are unavailable
	var favs ui.FavoriteStore
	if store != nil {
		favs = store
	}
	uiOpts := ui.Options{Query: opts.query, ParkCode: opts.parkCode}
	p := tea.NewProgram(ui.NewModel(service, favs, uiOpts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

func printPlain(ctx context.Context, w io.Writer, service *nps.Service, store *favorites.Store, opts options) error {
	var favs []string
	if store != nil {
		list, err := store.List()
		if err != nil {
			return fmt.Errorf("loading favorites: %w", err)
		}
		favs = list
	}

	switch {
	case opts.parkCode != "":
		isFav := false
		for _, code := range favs {
			if code == opts.parkCode {
				isFav = true
			}
		}
		ui.PrintDetail(w, service.Detail(ctx, opts.parkCode), isFav)
	case opts.featured:
		home := service.Featured(ctx)
		ui.PrintListing(w, nps.Listing{Title: "Featured Parks", Parks: home.Parks}, favs)
		fmt.Fprintln(w, "\nLatest Alerts")
		ui.PrintAlerts(w, home.Alerts)
	case opts.states:
		r := service.States(ctx)
		if r.Failed() {
			return fmt.Errorf("loading states: %w", r.Err)
		}
		fmt.Fprintln(w, strings.Join(r.Value, " "))
	case opts.alerts:
		fmt.Fprintln(w, "Current Alerts")
		ui.PrintAlerts(w, service.Alerts(ctx, ""))
	case opts.favorites:
		if store == nil {
			return errors.New("favorites are unavailable without a database")
		}
		ui.PrintListing(w, favoriteListing(ctx, service, favs), favs)
	default:
		ui.PrintListing(w, service.Browse(ctx, opts.query), favs)
	}
	return nil
}

// favoriteListing looks up each favorite in stored order; unknown codes are skipped
func favoriteListing(ctx context.Context, service *nps.Service, codes []string) nps.Listing {
	l := nps.Listing{Title: "Favorite Parks"}
	l.Parks.Value = []models.Park{}
	l.Parks.Status = nps.StatusEmpty
	for _, code := range codes {
		r := service.ParkByCode(ctx, code)
		if r.Failed() {
			l.Parks.Status, l.Parks.Err = nps.StatusError, r.Err
			continue
		}
		if r.Value != nil {
			l.Parks.Value = append(l.Parks.Value, *r.Value)
		}
	}
	if len(l.Parks.Value) > 0 && !l.Parks.Failed() {
		l.Parks.Status = nps.StatusOK
	}
	return l
}

func toggleFavorite(w io.Writer, store *favorites.Store, code string) error {
	if store == nil {
		return errors.New("favorites are unavailable without a database")
	}
	added, err := store.Toggle(code)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(w, "Added %s to favorites\n", code)
	} else {
		fmt.Fprintf(w, "Removed %s from favorites\n", code)
	}
	return nil
}

type geocoder interface {
	Geocode(ctx context.Context, query string) (geocoding.Location, error)
}

func printNearby(ctx context.Context, w io.Writer, db *sql.DB, source string, g geocoder, near string, radius float64) error {
	if db == nil {
		return errors.New("boundary lookups need a database")
	}
	lat, lon, err := resolveLocation(ctx, g, near)
	if err != nil {
		return err
	}

	needed, err := boundaries.NeedsProvisioning(db)
	if err != nil {
		return err
	}
	if needed {
		if source == "" {
			return errors.New("no park boundaries loaded; set boundaries.source in the config file")
		}
		fmt.Fprintln(w, "Loading park boundaries, this may take a while...")
		if err := boundaries.Provision(ctx, db, source); err != nil {
			return fmt.Errorf("provisioning boundaries: %w", err)
		}
	}

	inside, err := boundaries.Containing(db, lat, lon)
	if err != nil {
		return err
	}
	nearby, err := boundaries.Nearby(db, lat, lon, radius)
	if err != nil {
		return err
	}
	ui.PrintNearby(w, lat, lon, inside, nearby)
	return nil
}

// resolveLocation accepts "lat,lon" and geocodes anything else, such as a
// zip code or "City, ST"
func resolveLocation(ctx context.Context, g geocoder, s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, errors.New("empty location")
	}
	lat, lon, err := parseCoords(s)
	if err == nil || looksLikeCoords(s) {
		return lat, lon, err
	}

	loc, err := g.Geocode(ctx, s)
	if err != nil {
		return 0, 0, err
	}
	slog.Debug("geocoded location", "query", s, "name", loc.Name, "lat", loc.Latitude, "lon", loc.Longitude)
	return loc.Latitude, loc.Longitude, nil
}

// looksLikeCoords reports a numeric pair, so out-of-range values are
// reported instead of sent to the geocoder
func looksLikeCoords(s string) bool {
	if !strings.Contains(s, ",") {
		return false
	}
	return strings.Trim(s, "0123456789.,-+ ") == ""
}

// parseCoords reads "lat,lon"
func parseCoords(s string) (float64, float64, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid location %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid longitude %q", lonStr)
	}
	return lat, lon, nil
}
