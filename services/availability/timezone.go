package availability

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone rules must be available in minimal containers

	"massobook/models"
)

// TimezoneConverter maps the provider's civil time to absolute UTC instants and back.
// The offset used for a date is the one in effect at local midday of that date; on
// DST transition days this single offset is applied to the whole day.
type TimezoneConverter struct {
	loc *time.Location
}

func NewTimezoneConverter(zone string) (*TimezoneConverter, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &TimezoneConverter{loc: loc}, nil
}

func (c *TimezoneConverter) Location() *time.Location {
	return c.loc
}

// OffsetFor returns the local-minus-UTC offset for the given date.
func (c *TimezoneConverter) OffsetFor(date models.CivilDate) time.Duration {
	midday := time.Date(date.Year, date.Month, date.Day, 12, 0, 0, 0, c.loc)
	_, seconds := midday.Zone()
	return time.Duration(seconds) * time.Second
}

// ToUTC converts a local time of day on date to an absolute UTC instant.
func (c *TimezoneConverter) ToUTC(date models.CivilDate, tod models.TimeOfDay) time.Time {
	wall := date.In(time.UTC).Add(tod.Duration())
	return wall.Add(-c.OffsetFor(date))
}

// ToLocal converts a UTC instant back to a local time of day using date's offset.
func (c *TimezoneConverter) ToLocal(date models.CivilDate, instant time.Time) models.TimeOfDay {
	wall := instant.UTC().Add(c.OffsetFor(date))
	return models.TimeOfDay(wall.Hour()*60 + wall.Minute())
}

// DayBoundsUTC returns the provider-local day [00:00, 24:00) of date as UTC instants.
func (c *TimezoneConverter) DayBoundsUTC(date models.CivilDate) (time.Time, time.Time) {
	start := c.ToUTC(date, 0)
	return start, start.Add(24 * time.Hour)
}

// Today returns the provider-local civil date at instant now.
func (c *TimezoneConverter) Today(now time.Time) models.CivilDate {
	return models.CivilDateOf(now.In(c.loc))
}
