package zones

import (
	"time"
)

// Transition is a change of UTC offset or zone name
type Transition struct {
	At           time.Time // First instant of the new zone, in the location
	NameBefore   string
	OffsetBefore int // Seconds east of UTC
	NameAfter    string
	OffsetAfter  int
}

// Shift returns the change in offset, positive when clocks move forward
func (t Transition) Shift() time.Duration {
	return time.Duration(t.OffsetAfter-t.OffsetBefore) * time.Second
}

// Transitions lists the zone changes of loc that happen during year
func Transitions(loc *time.Location, year int) []Transition {
	var transitions []Transition

	t := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	limit := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)

	for {
		_, end := t.ZoneBounds()
		if end.IsZero() || !end.Before(limit) {
			break
		}

		nameBefore, offsetBefore := t.Zone()
		nameAfter, offsetAfter := end.Zone()
		transitions = append(transitions, Transition{
			At:           end,
			NameBefore:   nameBefore,
			OffsetBefore: offsetBefore,
			NameAfter:    nameAfter,
			OffsetAfter:  offsetAfter,
		})
		t = end
	}

	return transitions
}

// TransitionsBetween collects Transitions for every year from first to last
// inclusive
func TransitionsBetween(loc *time.Location, first, last int) []Transition {
	var transitions []Transition
	for year := first; year <= last; year++ {
		transitions = append(transitions, Transitions(loc, year)...)
	}
	return transitions
}
