// Package campaign holds campaign validation and publish-slot computation.
// Slot sequences are pure functions of campaign parameters, so they can be
// recomputed from scratch on every scheduler pass without stored state.
package campaign

import (
	"fmt"
	"time"

	"github.com/seopilot/seopilot/app/database"
)

// DefaultPublishTime is used when a campaign does not set one.
const DefaultPublishTime = "10:00"

// Validate checks the campaign invariants: end date not before start date,
// frequency at least one post per day, and a parseable publish time.
func Validate(c *database.Campaign) error {
	if c.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if c.Frequency < 1 {
		return fmt.Errorf("frequency must be >= 1, got %d", c.Frequency)
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			c.EndDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}
	if _, _, err := ParsePublishTime(c.PublishTime); err != nil {
		return err
	}
	return nil
}

// ParsePublishTime parses a "HH:MM" time-of-day.
func ParsePublishTime(s string) (hour, minute int, err error) {
	if s == "" {
		s = DefaultPublishTime
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid publish time %q (want HH:MM): %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
