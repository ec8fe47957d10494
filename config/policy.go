package config

import (
	"fmt"
	"strings"
	"time"

	"massobook/models"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeeklyPolicy builds the provider's week. An empty value yields the default week;
// otherwise each "day=HH:MM-HH:MM" or "day=closed" entry overrides the default for that day.
func ParseWeeklyPolicy(raw string) (models.WeeklyPolicy, error) {
	base := models.DefaultWeeklyPolicy()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return base, nil
	}

	windows := make(map[time.Weekday]models.DayWindow, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		if w, ok := base.Window(day); ok {
			windows[day] = w
		}
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return models.WeeklyPolicy{}, fmt.Errorf("weekly policy entry %q: expected day=window", entry)
		}
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return models.WeeklyPolicy{}, fmt.Errorf("weekly policy entry %q: unknown weekday", entry)
		}
		value = strings.TrimSpace(value)
		if strings.EqualFold(value, "closed") {
			delete(windows, day)
			continue
		}
		from, to, ok := strings.Cut(value, "-")
		if !ok {
			return models.WeeklyPolicy{}, fmt.Errorf("weekly policy entry %q: expected HH:MM-HH:MM", entry)
		}
		start, err := models.ParseTimeOfDay(from)
		if err != nil {
			return models.WeeklyPolicy{}, fmt.Errorf("weekly policy entry %q: %w", entry, err)
		}
		end, err := parseWindowEnd(to)
		if err != nil {
			return models.WeeklyPolicy{}, fmt.Errorf("weekly policy entry %q: %w", entry, err)
		}
		windows[day] = models.DayWindow{Start: start, End: end}
	}
	return models.NewWeeklyPolicy(windows)
}

// parseWindowEnd accepts "24:00" as end of day in addition to regular times.
func parseWindowEnd(s string) (models.TimeOfDay, error) {
	if strings.TrimSpace(s) == "24:00" {
		return 24 * 60, nil
	}
	return models.ParseTimeOfDay(s)
}
