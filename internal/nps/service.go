package nps

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/park-terminal/internal/metrics"
	"github.com/ngmaloney/park-terminal/internal/models"
)

const (
	// DefaultParkLimit covers one park per state plus multi-state units
	DefaultParkLimit = 51
	SearchLimit      = 50
	AlertLimit       = 50
	EventLimit       = 50

	ParkCacheFor  = time.Hour
	AlertCacheFor = 30 * time.Minute // alerts and events change more often
	EventCacheFor = 30 * time.Minute
)

// Status tags the outcome of a query
type Status int

const (
	StatusOK    Status = iota // succeeded with data
	StatusEmpty               // succeeded, nothing found
	StatusError               // failed; Value holds the empty fallback
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result carries a query value together with how it was obtained.
// On failure Value is the query's fallback, so callers that only read Value
// see "nothing found".
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Failed reports whether the query fell back after an error
func (r Result[T]) Failed() bool {
	return r.Status == StatusError
}

// Service exposes the endpoint-specific queries used by the front-ends
type Service struct {
	client  *Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService wraps a client. Logger and metrics follow the client's.
func NewService(client *Client) *Service {
	return &Service{
		client:  client,
		logger:  client.logger,
		metrics: client.metrics,
	}
}

// Parks lists parks, optionally restricted to a state code.
// limit <= 0 uses DefaultParkLimit.
func (s *Service) Parks(ctx context.Context, stateCode string, limit int) Result[[]models.Park] {
	if limit <= 0 {
		limit = DefaultParkLimit
	}
	params := map[string]string{
		"limit": strconv.Itoa(limit),
	}
	if stateCode = strings.TrimSpace(stateCode); stateCode != "" {
		params["stateCode"] = stateCode
	}
	return s.parkList(ctx, "parks", params)
}

// SearchParks runs a free-text query against names, descriptions and the like
func (s *Service) SearchParks(ctx context.Context, query string) Result[[]models.Park] {
	params := map[string]string{
		"q":     query,
		"limit": strconv.Itoa(SearchLimit),
	}
	return s.parkList(ctx, "search", params)
}

// ParkByCode looks up a single park. Value is nil when nothing matched.
func (s *Service) ParkByCode(ctx context.Context, parkCode string) Result[*models.Park] {
	resp, err := Fetch[models.Response[models.Park]](ctx, s.client, "/parks",
		map[string]string{"parkCode": parkCode},
		FetchOptions{CacheFor: ParkCacheFor})
	if err != nil {
		s.fail("park", err, "parkCode", parkCode)
		return Result[*models.Park]{Status: StatusError, Err: err}
	}

	if len(resp.Data) == 0 {
		return Result[*models.Park]{Status: StatusEmpty}
	}
	park := resp.Data[0]
	for _, p := range resp.Data {
		if strings.EqualFold(p.ParkCode, parkCode) {
			park = p
			break
		}
	}
	return Result[*models.Park]{Value: &park, Status: StatusOK}
}

// Alerts lists current alerts, optionally for one park
func (s *Service) Alerts(ctx context.Context, parkCode string) Result[[]models.Alert] {
	params := map[string]string{
		"limit": strconv.Itoa(AlertLimit),
	}
	if parkCode != "" {
		params["parkCode"] = parkCode
	}

	resp, err := Fetch[models.Response[models.Alert]](ctx, s.client, "/alerts", params,
		FetchOptions{CacheFor: AlertCacheFor})
	if err != nil {
		s.fail("alerts", err, "parkCode", parkCode)
		return Result[[]models.Alert]{Value: []models.Alert{}, Status: StatusError, Err: err}
	}
	return listResult(resp.Data)
}

// Events lists upcoming events, optionally for one park
func (s *Service) Events(ctx context.Context, parkCode string) Result[[]models.Event] {
	params := map[string]string{
		"limit": strconv.Itoa(EventLimit),
	}
	if parkCode != "" {
		params["parkCode"] = parkCode
	}

	resp, err := Fetch[models.Response[models.Event]](ctx, s.client, "/events", params,
		FetchOptions{CacheFor: EventCacheFor})
	if err != nil {
		s.fail("events", err, "parkCode", parkCode)
		return Result[[]models.Event]{Value: []models.Event{}, Status: StatusError, Err: err}
	}
	return listResult(resp.Data)
}

// States derives the sorted distinct state codes of the default park listing
func (s *Service) States(ctx context.Context) Result[[]string] {
	parks := s.Parks(ctx, "", 0)
	if parks.Failed() {
		return Result[[]string]{Value: []string{}, Status: StatusError, Err: parks.Err}
	}
	return listResult(DistinctStates(parks.Value))
}

// DistinctStates collects every state code of parks: comma split, trimmed,
// deduplicated and sorted ascending
func DistinctStates(parks []models.Park) []string {
	set := make(map[string]struct{})
	for i := range parks {
		for _, code := range parks[i].StateCodes() {
			set[code] = struct{}{}
		}
	}

	states := make([]string, 0, len(set))
	for code := range set {
		states = append(states, code)
	}
	sort.Strings(states)
	return states
}

func (s *Service) parkList(ctx context.Context, query string, params map[string]string) Result[[]models.Park] {
	resp, err := Fetch[models.Response[models.Park]](ctx, s.client, "/parks", params,
		FetchOptions{CacheFor: ParkCacheFor})
	if err != nil {
		s.fail(query, err, "params", params)
		return Result[[]models.Park]{Value: []models.Park{}, Status: StatusError, Err: err}
	}
	return listResult(resp.Data)
}

// fail logs a swallowed query error
func (s *Service) fail(query string, err error, args ...any) {
	s.metrics.Fallback(query)
	s.logger.Error("nps query failed", append([]any{"query", query, "error", err}, args...)...)
}

func listResult[T any](data []T) Result[[]T] {
	if len(data) == 0 {
		return Result[[]T]{Value: []T{}, Status: StatusEmpty}
	}
	return Result[[]T]{Value: data, Status: StatusOK}
}
