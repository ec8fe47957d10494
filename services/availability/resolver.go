package availability

import (
	"context"
	"errors"
	"time"

	"massobook/models"
	"massobook/utils"

	"go.uber.org/zap"
)

// BusySource returns the provider's commitments overlapping [from, to).
type BusySource interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error)
}

// Resolver computes the bookable slots of a date. It keeps no state between
// calls and re-reads the calendar on every request.
type Resolver struct {
	policy  models.WeeklyPolicy
	tz      *TimezoneConverter
	busy    BusySource
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Resolver)

// WithClock overrides the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithTimeout bounds each calendar read. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func NewResolver(policy models.WeeklyPolicy, tz *TimezoneConverter, busy BusySource, opts ...Option) *Resolver {
	r := &Resolver{
		policy:  policy,
		tz:      tz,
		busy:    busy,
		timeout: 5 * time.Second,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Converter() *TimezoneConverter {
	return r.tz
}

// Resolve parses a "YYYY-MM-DD" date and returns its available local slot labels.
func (r *Resolver) Resolve(ctx context.Context, rawDate string) ([]string, error) {
	date, err := models.ParseCivilDate(rawDate)
	if err != nil {
		return nil, utils.NewValidationError("invalid date", err)
	}
	slots, err := r.availableSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	return FormatLabels(slots, r.tz), nil
}

// IsAvailable reports whether tod is currently offered on date.
func (r *Resolver) IsAvailable(ctx context.Context, date models.CivilDate, tod models.TimeOfDay) (bool, error) {
	slots, err := r.availableSlots(ctx, date)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Start == tod {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) availableSlots(ctx context.Context, date models.CivilDate) ([]models.SlotCandidate, error) {
	raw := GenerateRawSlots(date, r.policy)
	if len(raw) == 0 {
		r.logger.Debug("no working window for date", zap.String("date", date.String()))
		return nil, nil
	}
	slots := AnchorToUTC(raw, r.tz)

	from, to := r.QueryWindow(date)
	busy, err := r.fetchBusy(ctx, from, to)
	if err != nil {
		return nil, err
	}

	free := FilterConflicts(slots, busy)
	open := FilterPast(free, date, r.now(), r.tz)

	r.logger.Debug("resolved availability",
		zap.String("date", date.String()),
		zap.Int("raw", len(slots)),
		zap.Int("busy", len(busy)),
		zap.Int("free", len(free)),
		zap.Int("open", len(open)),
	)
	return open, nil
}

// QueryWindow covers both the UTC day of date and the provider-local day expressed in UTC,
// so that events reported in either frame are fetched.
func (r *Resolver) QueryWindow(date models.CivilDate) (time.Time, time.Time) {
	utcStart := date.In(time.UTC)
	utcEnd := utcStart.Add(24 * time.Hour)
	localStart, localEnd := r.tz.DayBoundsUTC(date)
	if localStart.Before(utcStart) {
		utcStart = localStart
	}
	if localEnd.After(utcEnd) {
		utcEnd = localEnd
	}
	return utcStart, utcEnd
}

func (r *Resolver) fetchBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	if r.busy == nil {
		return nil, utils.NewConfigurationError("calendar is not configured", nil)
	}
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	busy, err := r.busy.BusyIntervals(callCtx, from, to)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, utils.NewUnavailableError("calendar service timed out", err)
		}
		if utils.KindOf(err) == utils.KindInternal {
			return nil, utils.NewUpstreamError("calendar service failed", err)
		}
		return nil, err
	}
	return busy, nil
}
