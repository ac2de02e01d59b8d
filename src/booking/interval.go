package booking

import (
	"errors"
	"time"

	"airline/src/models"

	"gorm.io/gorm"
)

// TurnaroundBuffer is the mandatory gap between two flights on the same
// airplane, for boarding, cleaning and maintenance. It is applied at
// check time only; stored rows keep their raw window.
const TurnaroundBuffer = time.Hour

// Interval is a closed time interval [Start, End].
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Widen grows the interval symmetrically by d on both ends.
func (iv Interval) Widen(d time.Duration) Interval {
	return Interval{Start: iv.Start.Add(-d), End: iv.End.Add(d)}
}

// Overlaps reports whether two closed intervals intersect. Boundaries
// count: a flight landing exactly TurnaroundBuffer before the candidate
// departs still conflicts once the candidate has been widened.
func (iv Interval) Overlaps(other Interval) bool {
	return !iv.Start.After(other.End) && !other.Start.After(iv.End)
}

// firstConflict returns the committed flight on airplaneID whose raw
// window overlaps the already-widened candidate interval, or nil when
// the slot is clear. The query walks the (airplane_id, departure_time)
// composite index rather than scanning the flights table; ordering by id
// makes the reported conflict deterministic when several exist.
// excludeFlightID removes the flight's own prior window on updates.
func firstConflict(tx *gorm.DB, airplaneID uint, widened Interval, excludeFlightID uint) (*models.Flight, error) {
	var conflict models.Flight
	q := tx.
		Model(&models.Flight{}).
		Where("airplane_id = ?", airplaneID).
		Where("departure_time <= ?", widened.End).
		Where("arrival_time >= ?", widened.Start)
	if excludeFlightID != 0 {
		q = q.Where("id <> ?", excludeFlightID)
	}
	err := q.
		Order("id asc").
		First(&conflict).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conflict, nil
}
