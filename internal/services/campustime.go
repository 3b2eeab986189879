package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campustrack-backend/internal/models"
)

// CampusTimeStore persists day buckets. Days are passed as midnight-UTC
// dates regardless of the bucketing zone; the zone only decides where one
// day ends and the next begins.
type CampusTimeStore interface {
	AddSeconds(ctx context.Context, studentID uuid.UUID, day time.Time, seconds int) error
	GetDay(ctx context.Context, studentID uuid.UUID, day time.Time) (int, error)
	ListRange(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]*models.DailyCampusTime, error)
}

// CampusTimeService distributes a clocked interval into per-day totals,
// splitting at midnight in the configured zone. Each call adds seconds; it is
// deliberately not idempotent, so callers must credit each valid in/out pair
// exactly once (the ledger's intervening-out rule guarantees that).
type CampusTimeService struct {
	store CampusTimeStore
	loc   *time.Location
}

func NewCampusTimeService(store CampusTimeStore, loc *time.Location) *CampusTimeService {
	if loc == nil {
		loc = time.UTC
	}
	return &CampusTimeService{store: store, loc: loc}
}

// AddDailyCampusTime walks [start, end) in day-sized segments and increments
// each touched bucket. Missing or inverted endpoints are a no-op, not an
// error: they signal an unusable pair, which the caller has already decided
// not to treat as a failure.
func (s *CampusTimeService) AddDailyCampusTime(ctx context.Context, studentID uuid.UUID, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if !end.After(start) {
		return nil
	}

	current := start.In(s.loc)
	endLocal := end.In(s.loc)

	for {
		year, month, day := current.Date()
		nextDayStart := time.Date(year, month, day+1, 0, 0, 0, 0, s.loc)

		segmentEnd := endLocal
		if nextDayStart.Before(endLocal) {
			segmentEnd = nextDayStart
		}

		seconds := int(segmentEnd.Sub(current).Seconds())
		if seconds > 0 {
			bucket := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if err := s.store.AddSeconds(ctx, studentID, bucket, seconds); err != nil {
				return err
			}
		}

		if !segmentEnd.Before(endLocal) {
			break
		}
		current = segmentEnd
	}
	return nil
}

// DayTotal returns the credited seconds for the day containing t.
func (s *CampusTimeService) DayTotal(ctx context.Context, studentID uuid.UUID, t time.Time) (int, error) {
	year, month, day := t.In(s.loc).Date()
	return s.store.GetDay(ctx, studentID, time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// RangeTotals returns the buckets for the days-long window ending at the day
// containing t, oldest first.
func (s *CampusTimeService) RangeTotals(ctx context.Context, studentID uuid.UUID, t time.Time, days int) ([]*models.DailyCampusTime, error) {
	year, month, day := t.In(s.loc).Date()
	to := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -(days - 1))
	return s.store.ListRange(ctx, studentID, from, to)
}
