// Package timeline computes the subset and ordering of journal messages to
// present. Every function is pure: no hidden state, safe to call repeatedly,
// and stable with respect to the input order of equal-key elements.
package timeline

import (
	"sort"
	"time"

	"chatjournal/pkg/models"
)

// SortAscending returns a copy of msgs ordered by CreatedTS ascending.
// sort.SliceStable keeps insertion order for equal timestamps.
func SortAscending(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedTS < out[j].CreatedTS })
	return out
}

// SelectByDate returns the messages whose CreatedTS falls on the calendar
// day of `day` in the given location, sorted ascending. An unmatched day
// yields an empty result.
func SelectByDate(all []models.Message, day time.Time, loc *time.Location) []models.Message {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	out := make([]models.Message, 0)
	for _, msg := range all {
		t := time.Unix(0, msg.CreatedTS).In(loc)
		if !t.Before(start) && t.Before(end) {
			out = append(out, msg)
		}
	}
	return SortAscending(out)
}

// SelectByDateRange returns messages with start <= CreatedTS <= end
// (whole calendar days, inclusive), sorted ascending. A swapped range is
// normalized low-to-high first, so the call is symmetric in its arguments.
func SelectByDateRange(all []models.Message, start, end time.Time, loc *time.Location) []models.Message {
	if loc == nil {
		loc = time.Local
	}
	if start.After(end) {
		start, end = end, start
	}
	sy, sm, sd := start.In(loc).Date()
	ey, em, ed := end.In(loc).Date()
	lo := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	hi := time.Date(ey, em, ed, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	out := make([]models.Message, 0)
	for _, msg := range all {
		t := time.Unix(0, msg.CreatedTS).In(loc)
		if !t.Before(lo) && t.Before(hi) {
			out = append(out, msg)
		}
	}
	return SortAscending(out)
}

// FilterByKind returns the subset whose Kind matches. The zero Kind is the
// identity filter: the input is returned unchanged, order preserved.
func FilterByKind(msgs []models.Message, kind models.Kind) []models.Message {
	if kind == "" {
		return msgs
	}
	out := make([]models.Message, 0)
	for _, m := range msgs {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
