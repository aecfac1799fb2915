package campaign

import (
	"iter"
	"time"

	"github.com/seopilot/seopilot/app/database"
)

// Slots yields every publish instant of the campaign in ascending order.
// Daily slots start at the campaign's publish time; a frequency above one
// spreads the day's slots evenly across the following 24 hours, exclusive of
// the next day's first slot. A late publish time pushes a day's later slots
// past midnight; slots that would land beyond the campaign's end day are
// dropped so every yielded instant stays within the window. The sequence is
// finite and restartable: it is derived entirely from campaign parameters.
func Slots(c *database.Campaign) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		hour, minute, err := ParsePublishTime(c.PublishTime)
		if err != nil || c.Frequency < 1 {
			return
		}

		step := 24 * time.Hour / time.Duration(c.Frequency)
		windowEnd := time.Date(c.EndDate.Year(), c.EndDate.Month(), c.EndDate.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

		for day := c.StartDate; !day.After(c.EndDate); day = day.AddDate(0, 0, 1) {
			base := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
			for j := 0; j < c.Frequency; j++ {
				slot := base.Add(time.Duration(j) * step)
				if !slot.Before(windowEnd) {
					break
				}
				if !yield(slot) {
					return
				}
			}
		}
	}
}

// NextSlots returns up to count publish instants at or after from.
func NextSlots(c *database.Campaign, from time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}

	slots := make([]time.Time, 0, count)
	for slot := range Slots(c) {
		if slot.Before(from) {
			continue
		}
		slots = append(slots, slot)
		if len(slots) == count {
			break
		}
	}
	return slots
}

// FreeSlots returns up to count publish instants at or after from that are
// not already taken. Taken slots are compared at second granularity.
func FreeSlots(c *database.Campaign, from time.Time, count int, taken []time.Time) []time.Time {
	if count <= 0 {
		return nil
	}

	used := make(map[int64]bool, len(taken))
	for _, t := range taken {
		used[t.UTC().Unix()] = true
	}

	slots := make([]time.Time, 0, count)
	for slot := range Slots(c) {
		if slot.Before(from) || used[slot.Unix()] {
			continue
		}
		slots = append(slots, slot)
		if len(slots) == count {
			break
		}
	}
	return slots
}

// DueForGeneration reports whether the campaign's inventory of
// not-yet-published records has fallen below the threshold. This triggers
// proactive generation ahead of schedule, independent of the slot clock.
func DueForGeneration(notPublished, threshold int) bool {
	return notPublished < threshold
}
