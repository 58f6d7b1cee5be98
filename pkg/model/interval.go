package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End). The end instant is
// excluded, so back-to-back intervals sharing a boundary do not overlap.
type Interval struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals intersect. Strict
// inequality on both sides: touching endpoints are not an overlap. This is
// the single overlap predicate for both conflict detection and availability
// planning.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
