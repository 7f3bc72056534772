package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// snapshot is an immutable view of the loaded designations.
// It is replaced as a whole, never mutated after publication.
type snapshot struct {
	holidays map[string]Designation
	workdays map[string]Designation
	years    map[int]bool
}

func newSnapshot() *snapshot {
	return &snapshot{
		holidays: make(map[string]Designation),
		workdays: make(map[string]Designation),
		years:    make(map[int]bool),
	}
}

func (s *snapshot) add(year int, designations []Designation) {
	for _, d := range designations {
		key := dateutil.Key(d.Date)
		switch d.Kind {
		case KindHoliday:
			s.holidays[key] = d
		case KindWorkday:
			s.workdays[key] = d
		}
	}
	if len(designations) > 0 {
		s.years[year] = true
	}
}

// keep copies the entries of the year from another snapshot
func (s *snapshot) keep(from *snapshot, year int) {
	for key, d := range from.holidays {
		if d.Year == year {
			s.holidays[key] = d
		}
	}
	for key, d := range from.workdays {
		if d.Year == year {
			s.workdays[key] = d
		}
	}
	if from.years[year] {
		s.years[year] = true
	}
}

// RefreshReport describes the outcome of Oracle.Refresh per year
type RefreshReport struct {
	Updated       []int
	Failed        map[int]error
	PersistFailed map[int]error
}

// Oracle decides whether a date is a designated working day.
// Reads are lock-free; Refresh is a single exclusive writer that publishes
// a fully built snapshot.
type Oracle struct {
	source Source
	store  Store
	cache  *FileCache
	clock  dateutil.Clock
	logger *zap.Logger

	current   atomic.Pointer[snapshot]
	refreshMu sync.Mutex
}

// NewOracle creates an Oracle with an empty calendar (weekday-only rules)
// until Load or Refresh is called. cache may be nil.
func NewOracle(source Source, store Store, cache *FileCache, clock dateutil.Clock, logger *zap.Logger) *Oracle {
	o := &Oracle{
		source: source,
		store:  store,
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
	o.current.Store(newSnapshot())
	return o
}

// window returns the years kept in memory: previous, current and next
func (o *Oracle) window() []int {
	year := o.clock.Now().Year()
	return []int{year - 1, year, year + 1}
}

// IsWorkday checks if the given date is a working day
func (o *Oracle) IsWorkday(date time.Time) bool {
	return o.Day(date).IsWorkday()
}

// Day returns the classification of the date
func (o *Oracle) Day(date time.Time) CalendarDay {
	snap := o.current.Load()
	key := dateutil.Key(date)
	day := CalendarDay{Date: dateutil.StartOfDay(date)}

	if d, ok := snap.holidays[key]; ok {
		day.Type = DayTypeHoliday
		day.Note = d.Name
		return day
	}
	if d, ok := snap.workdays[key]; ok {
		day.Type = DayTypeCompensatory
		day.Note = d.Name
		return day
	}
	if dateutil.IsWeekday(date) {
		day.Type = DayTypeWorkday
	} else {
		day.Type = DayTypeWeekend
	}
	return day
}

// LoadedYears returns the years that have designation data
func (o *Oracle) LoadedYears() []int {
	snap := o.current.Load()
	years := make([]int, 0, len(snap.years))
	for y := range snap.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Load fills the calendar from the store, falling back to the file cache.
// Years without any data degrade to weekday-only classification; Load never fails.
func (o *Oracle) Load(ctx context.Context) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	next := newSnapshot()
	for _, year := range o.window() {
		designations := o.loadYear(ctx, year)
		if len(designations) == 0 {
			o.logger.Warn("No calendar data for year, using weekday rules",
				zap.Int("year", year))
			continue
		}
		next.add(year, designations)
	}

	o.current.Store(next)

	o.logger.Info("Calendar loaded",
		zap.Ints("years", o.LoadedYears()),
		zap.Int("holidays", len(next.holidays)),
		zap.Int("workdays", len(next.workdays)))
}

func (o *Oracle) loadYear(ctx context.Context, year int) []Designation {
	designations, err := o.store.LoadYear(ctx, year)
	if err != nil {
		o.logger.Error("Failed to load calendar from store",
			zap.Int("year", year),
			zap.Error(err))
	}
	if len(designations) > 0 {
		return designations
	}

	if o.cache == nil {
		return nil
	}
	payload, ok := o.cache.Load(year)
	if !ok {
		return nil
	}

	cached := CompleteDesignations(year, payload, o.logger)
	if err := o.store.UpsertDesignations(ctx, cached); err != nil {
		o.logger.Error("Failed to promote cached calendar into store",
			zap.Int("year", year),
			zap.Error(err))
		return cached
	}

	designations, err = o.store.LoadYear(ctx, year)
	if err != nil || len(designations) == 0 {
		o.logger.Warn("Reload after cache promotion failed, using cache directly",
			zap.Int("year", year),
			zap.Error(err))
		return cached
	}

	o.logger.Info("Calendar promoted from cache",
		zap.Int("year", year),
		zap.Int("entries", len(designations)))
	return designations
}

// Refresh re-fetches the previous, current and next year from the source,
// persists them and atomically publishes the new calendar. Years that fail to
// fetch keep their existing data. The returned error wraps ErrRefresh when any
// year failed to fetch or persist.
func (o *Oracle) Refresh(ctx context.Context) (*RefreshReport, error) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	years := o.window()
	payloads := make([]YearDesignations, len(years))
	fetchErrs := make([]error, len(years))

	var g errgroup.Group
	for i, year := range years {
		g.Go(func() error {
			payload, err := o.source.FetchYear(ctx, year)
			if err != nil {
				fetchErrs[i] = err
				return err
			}
			payloads[i] = payload
			return nil
		})
	}
	// per-year errors are collected above; Wait only joins the goroutines
	_ = g.Wait()

	report := &RefreshReport{
		Failed:        make(map[int]error),
		PersistFailed: make(map[int]error),
	}
	prev := o.current.Load()
	next := newSnapshot()
	var errs []error

	for i, year := range years {
		if fetchErrs[i] != nil {
			o.logger.Warn("Calendar fetch failed, keeping existing data",
				zap.Int("year", year),
				zap.Error(fetchErrs[i]))
			report.Failed[year] = fetchErrs[i]
			errs = append(errs, fmt.Errorf("year %d: %w", year, fetchErrs[i]))
			next.keep(prev, year)
			continue
		}

		designations := CompleteDesignations(year, payloads[i], o.logger)
		if len(designations) == 0 && prev.years[year] {
			// an empty answer for a year we already know is not a real update
			err := fmt.Errorf("%w: no designations for %d", ErrMalformedPayload, year)
			o.logger.Warn("Calendar source returned no data, keeping existing data",
				zap.Int("year", year))
			report.Failed[year] = err
			errs = append(errs, fmt.Errorf("year %d: %w", year, err))
			next.keep(prev, year)
			continue
		}

		if o.cache != nil {
			if err := o.cache.Save(year, payloads[i]); err != nil {
				o.logger.Error("Failed to save holiday cache",
					zap.Int("year", year),
					zap.Error(err))
			}
		}

		if err := o.store.UpsertDesignations(ctx, designations); err != nil {
			o.logger.Error("Failed to persist calendar",
				zap.Int("year", year),
				zap.Error(err))
			report.PersistFailed[year] = err
			errs = append(errs, fmt.Errorf("year %d: persist: %w", year, err))
		} else {
			designations = o.reloadYear(ctx, year, designations)
		}

		next.add(year, designations)
		report.Updated = append(report.Updated, year)
	}

	o.current.Store(next)

	o.logger.Info("Calendar refreshed",
		zap.Ints("updated", report.Updated),
		zap.Int("failed", len(report.Failed)))

	if len(errs) > 0 {
		return report, fmt.Errorf("%w: %w", ErrRefresh, errors.Join(errs...))
	}
	return report, nil
}

// reloadYear reads the year back from the store so memory matches what a
// later Load would see. Upserts never delete, so the store may hold more.
func (o *Oracle) reloadYear(ctx context.Context, year int, fetched []Designation) []Designation {
	stored, err := o.store.LoadYear(ctx, year)
	if err != nil {
		o.logger.Warn("Reload after persist failed, using fetched data",
			zap.Int("year", year),
			zap.Error(err))
		return fetched
	}
	if len(stored) == 0 {
		return fetched
	}
	return stored
}
