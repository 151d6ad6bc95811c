package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"CapIot.energyportal/internal/chart"
	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/repository"
	"CapIot.energyportal/internal/usage"
)

// ErrSuperseded is returned when a newer request finished first and this
// response was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// UsageFetcher fetches backend-aggregated usage charts.
type UsageFetcher interface {
	Usage(ctx context.Context, productID string, sel usage.Selection) (*models.ChartData, error)
}

// UsageState is everything a usage screen renders.
type UsageState struct {
	Loaded    bool                    `json:"loaded"`
	Selection usage.Selection         `json:"selection"`
	Options   usage.Options           `json:"options"`
	Series    *models.ProcessedSeries `json:"series,omitempty"`
	Chart     *chart.Chart            `json:"chart,omitempty"`
}

// SelectionChange carries the selector values a user touched. Empty fields
// are left as they are.
type SelectionChange struct {
	Granularity string `json:"granularity,omitempty"`
	Year        string `json:"year,omitempty"`
	Month       string `json:"month,omitempty"`
	Day         string `json:"day,omitempty"`
	Hour        string `json:"hour,omitempty"`
}

// UsageView holds one usage screen: the reading snapshot, the selection and
// the chart derived from them.
type UsageView struct {
	source       repository.ReadingSource
	backend      UsageFetcher
	now          func() time.Time
	numericHours bool

	loadGate    Gate
	backendGate Gate

	mu     sync.Mutex
	loaded bool
	tree   models.ReadingTree
	sel    usage.Selection
	series *models.ProcessedSeries
}

// NewUsageView creates a view; backend may be nil when only the snapshot
// path is used.
func NewUsageView(source repository.ReadingSource, backend UsageFetcher, numericHours bool) *UsageView {
	return &UsageView{
		source:       source,
		backend:      backend,
		now:          time.Now,
		numericHours: numericHours,
		tree:         models.ReadingTree{},
		sel:          usage.NewSelection(time.Now(), nil),
	}
}

// Load replaces the snapshot with a fresh read and moves the selection to
// the latest year with data and the current month. On failure the previous
// state is kept.
func (v *UsageView) Load(ctx context.Context, productID string) (UsageState, error) {
	ticket := v.loadGate.Begin()
	tree, err := v.source.FetchTree(ctx, productID)
	if err != nil {
		log.Printf("Error fetching usage snapshot: %v", err)
		return v.State(), fmt.Errorf("error fetching usage snapshot: %w", err)
	}

	committed := ticket.Commit(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.tree = tree
		v.loaded = true
		years := usage.Years(tree)
		if len(years) > 0 {
			v.sel = usage.Selection{Granularity: v.sel.Granularity}.
				WithYear(years[len(years)-1]).
				WithMonth(fmt.Sprintf("%02d", int(v.now().Month())))
		}
		v.recompute()
	})
	if !committed {
		log.Println("Discarding superseded usage snapshot")
		return v.State(), ErrSuperseded
	}
	return v.State(), nil
}

// Select applies change as user transitions in selector order: granularity,
// year, month, day, hour.
func (v *UsageView) Select(change SelectionChange) (UsageState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	sel := v.sel
	if change.Granularity != "" {
		g, err := usage.ParseGranularity(change.Granularity)
		if err != nil {
			return v.stateFor(v.sel, v.series), err
		}
		sel = sel.WithGranularity(g, v.now())
	}
	if change.Year != "" {
		sel = sel.WithYear(change.Year)
	}
	if change.Month != "" {
		sel = sel.WithMonth(change.Month)
	}
	if change.Day != "" {
		sel = sel.WithDay(change.Day)
	}
	if change.Hour != "" {
		sel = sel.WithHour(change.Hour)
	}
	v.sel = sel
	v.recompute()
	return v.stateFor(v.sel, v.series), nil
}

// ChartFor computes the state for sel against the current snapshot without
// touching the view's own selection.
func (v *UsageView) ChartFor(sel usage.Selection) UsageState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateFor(sel, seriesFor(v.tree, sel))
}

// OptionsFor lists selector values reachable from sel in the current snapshot.
func (v *UsageView) OptionsFor(sel usage.Selection) usage.Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return usage.AvailableOptions(v.tree, sel, v.numericHours)
}

// State returns the current view state.
func (v *UsageView) State() UsageState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateFor(v.sel, v.series)
}

// FetchBackend asks the backend for its own aggregation of sel. When a newer
// FetchBackend call started meanwhile, the response is dropped.
func (v *UsageView) FetchBackend(ctx context.Context, productID string, sel usage.Selection) (*chart.Chart, error) {
	if v.backend == nil {
		return nil, fmt.Errorf("no usage backend configured")
	}
	ticket := v.backendGate.Begin()
	data, err := v.backend.Usage(ctx, productID, sel)
	if err != nil {
		log.Printf("Error fetching usage data: %v", err)
		return nil, err
	}
	if !ticket.Current() {
		log.Println("Discarding superseded usage response")
		return nil, ErrSuperseded
	}
	if len(data.DataPoints) == 0 {
		log.Println("No data points received or empty data array")
		return nil, nil
	}
	c := chart.FromBackend(*data)
	return &c, nil
}

// recompute requires v.mu. An incomplete selection clears the series rather
// than leaving the chart of a previous selection on screen.
func (v *UsageView) recompute() {
	v.series = seriesFor(v.tree, v.sel)
}

func (v *UsageView) stateFor(sel usage.Selection, series *models.ProcessedSeries) UsageState {
	st := UsageState{
		Loaded:    v.loaded,
		Selection: sel,
		Options:   usage.AvailableOptions(v.tree, sel, v.numericHours),
		Series:    series,
	}
	if series != nil {
		c := chart.FromSeries(*series, string(sel.Granularity))
		st.Chart = &c
	}
	return st
}

func seriesFor(tree models.ReadingTree, sel usage.Selection) *models.ProcessedSeries {
	series, ok := usage.Aggregate(tree, sel)
	if !ok {
		return nil
	}
	return &series
}
