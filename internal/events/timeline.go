package events

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Interval is the time between two consecutive events
type Interval struct {
	From     Event
	To       Event
	Duration time.Duration
}

// SortByTime orders events by timestamp, keeping file order for ties
func SortByTime(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
}

// Intervals returns the intervals between consecutive events
// Events are expected to be sorted.
func Intervals(events []Event) []Interval {
	if len(events) < 2 {
		return nil
	}
	intervals := make([]Interval, 0, len(events)-1)
	for i := 0; i+1 < len(events); i++ {
		intervals = append(intervals, Interval{
			From:     events[i],
			To:       events[i+1],
			Duration: events[i+1].At.Sub(events[i].At),
		})
	}
	return intervals
}

// Gaps returns only the durations of Intervals
func Gaps(events []Event) []time.Duration {
	intervals := Intervals(events)
	gaps := make([]time.Duration, len(intervals))
	for i, interval := range intervals {
		gaps[i] = interval.Duration
	}
	return gaps
}

// Longest returns the longest interval; ties keep the earliest
func Longest(events []Event) (Interval, bool) {
	intervals := Intervals(events)
	if len(intervals) == 0 {
		return Interval{}, false
	}
	longest := intervals[0]
	for _, interval := range intervals[1:] {
		if interval.Duration > longest.Duration {
			longest = interval
		}
	}
	return longest, true
}

// Sum totals integer columns across events
// Blank values count as zero; anything else that is not an integer is an
// error naming the offending line.
func Sum(events []Event, columns []string) (map[string]int, error) {
	totals := make(map[string]int, len(columns))
	for _, column := range columns {
		totals[column] = 0
	}

	for _, e := range events {
		for _, column := range columns {
			raw := strings.TrimSpace(e.Fields[column])
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q is not an integer: %q", e.Line, column, raw)
			}
			totals[column] += n
		}
	}

	return totals, nil
}
