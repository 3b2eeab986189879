package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"campustrack-backend/internal/models"
)

type stubCampusTimeStore struct {
	added map[string]int // "2006-01-02" -> seconds
	calls int
}

func newStubCampusTimeStore() *stubCampusTimeStore {
	return &stubCampusTimeStore{added: make(map[string]int)}
}

func (s *stubCampusTimeStore) AddSeconds(_ context.Context, _ uuid.UUID, day time.Time, seconds int) error {
	s.added[day.Format("2006-01-02")] += seconds
	s.calls++
	return nil
}

func (s *stubCampusTimeStore) GetDay(_ context.Context, _ uuid.UUID, day time.Time) (int, error) {
	return s.added[day.Format("2006-01-02")], nil
}

func (s *stubCampusTimeStore) ListRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*models.DailyCampusTime, error) {
	return nil, nil
}

func TestAddDailyCampusTime_SingleDay(t *testing.T) {
	store := newStubCampusTimeStore()
	svc := NewCampusTimeService(store, time.UTC)
	studentID := uuid.New()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2*time.Hour + 30*time.Minute)

	if err := svc.AddDailyCampusTime(context.Background(), studentID, start, end); err != nil {
		t.Fatalf("AddDailyCampusTime failed: %v", err)
	}

	if got := store.added["2026-03-10"]; got != 9000 {
		t.Errorf("Expected 9000 seconds on 2026-03-10, got %d", got)
	}
	if store.calls != 1 {
		t.Errorf("Expected 1 bucket write, got %d", store.calls)
	}
}

func TestAddDailyCampusTime_SplitsAtMidnight(t *testing.T) {
	store := newStubCampusTimeStore()
	svc := NewCampusTimeService(store, time.UTC)
	studentID := uuid.New()

	// 23:30 to 00:30 the next day: half an hour on each side
	start := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)

	if err := svc.AddDailyCampusTime(context.Background(), studentID, start, end); err != nil {
		t.Fatalf("AddDailyCampusTime failed: %v", err)
	}

	if got := store.added["2026-03-10"]; got != 1800 {
		t.Errorf("Expected 1800 seconds on 2026-03-10, got %d", got)
	}
	if got := store.added["2026-03-11"]; got != 1800 {
		t.Errorf("Expected 1800 seconds on 2026-03-11, got %d", got)
	}
}

func TestAddDailyCampusTime_MultiDaySpan(t *testing.T) {
	store := newStubCampusTimeStore()
	svc := NewCampusTimeService(store, time.UTC)
	studentID := uuid.New()

	start := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 13, 1, 0, 0, 0, time.UTC)

	if err := svc.AddDailyCampusTime(context.Background(), studentID, start, end); err != nil {
		t.Fatalf("AddDailyCampusTime failed: %v", err)
	}

	want := map[string]int{
		"2026-03-10": 2 * 3600,
		"2026-03-11": 24 * 3600,
		"2026-03-12": 24 * 3600,
		"2026-03-13": 1 * 3600,
	}
	for day, seconds := range want {
		if got := store.added[day]; got != seconds {
			t.Errorf("Day %s: expected %d seconds, got %d", day, seconds, got)
		}
	}
}

func TestAddDailyCampusTime_NotIdempotent(t *testing.T) {
	store := newStubCampusTimeStore()
	svc := NewCampusTimeService(store, time.UTC)
	studentID := uuid.New()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	svc.AddDailyCampusTime(context.Background(), studentID, start, end)
	svc.AddDailyCampusTime(context.Background(), studentID, start, end)

	if got := store.added["2026-03-10"]; got != 7200 {
		t.Errorf("Expected repeated call to double the total (7200), got %d", got)
	}
}

func TestAddDailyCampusTime_NoOpCases(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"zero start", time.Time{}, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"zero end", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Time{}},
		{"end equals start", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"end before start", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubCampusTimeStore()
			svc := NewCampusTimeService(store, time.UTC)

			if err := svc.AddDailyCampusTime(context.Background(), uuid.New(), tc.start, tc.end); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if store.calls != 0 {
				t.Errorf("Expected no bucket writes, got %d", store.calls)
			}
		})
	}
}

func TestAddDailyCampusTime_SubSecondSegmentDropped(t *testing.T) {
	store := newStubCampusTimeStore()
	svc := NewCampusTimeService(store, time.UTC)

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(500 * time.Millisecond)

	if err := svc.AddDailyCampusTime(context.Background(), uuid.New(), start, end); err != nil {
		t.Fatalf("AddDailyCampusTime failed: %v", err)
	}
	if store.calls != 0 {
		t.Errorf("Sub-second segment should truncate to zero and be skipped, got %d writes", store.calls)
	}
}

func TestAddDailyCampusTime_BucketsInConfiguredZone(t *testing.T) {
	store := newStubCampusTimeStore()
	loc := time.FixedZone("UTC-5", -5*3600)
	svc := NewCampusTimeService(store, loc)

	// 04:30Z-05:30Z is 23:30-00:30 local: the split happens at local
	// midnight, not UTC midnight.
	start := time.Date(2026, 3, 11, 4, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 5, 30, 0, 0, time.UTC)

	if err := svc.AddDailyCampusTime(context.Background(), uuid.New(), start, end); err != nil {
		t.Fatalf("AddDailyCampusTime failed: %v", err)
	}

	if got := store.added["2026-03-10"]; got != 1800 {
		t.Errorf("Expected 1800 seconds on local day 2026-03-10, got %d", got)
	}
	if got := store.added["2026-03-11"]; got != 1800 {
		t.Errorf("Expected 1800 seconds on local day 2026-03-11, got %d", got)
	}
}
