package services

import (
	"testing"
	"time"

	"campustrack-backend/internal/models"
)

func TestMeetsOn(t *testing.T) {
	tests := []struct {
		days     string
		weekday  time.Weekday
		expected bool
	}{
		{"MWF", time.Monday, true},
		{"MWF", time.Tuesday, false},
		{"MWF", time.Wednesday, true},
		{"MWF", time.Thursday, false},
		{"MWF", time.Friday, true},
		{"TTH", time.Tuesday, true},
		{"TTH", time.Thursday, true},
		{"TTH", time.Monday, false},
		{"TH", time.Thursday, true},
		{"TH", time.Tuesday, false},
		{"MW", time.Thursday, false},
		{"TR", time.Thursday, true},
		{"TR", time.Tuesday, true},
		{"mwf", time.Wednesday, true},
		{"MWF", time.Saturday, false},
		{"MWF", time.Sunday, false},
	}

	for _, tc := range tests {
		if got := meetsOn(tc.days, tc.weekday); got != tc.expected {
			t.Errorf("meetsOn(%q, %v) = %v, want %v", tc.days, tc.weekday, got, tc.expected)
		}
	}
}

func TestClassStartToday(t *testing.T) {
	days := "MWF"
	start := "14:30"
	class := &models.Class{MeetingDays: &days, StartTime: &start}

	// 2026-03-09 is a Monday
	now := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)

	startsAt, ok := classStartToday(class, now, time.UTC)
	if !ok {
		t.Fatalf("Expected a start time on a meeting day")
	}
	if !startsAt.Equal(time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)) {
		t.Errorf("Expected 14:30 today, got %v", startsAt)
	}

	// Tuesday: no meeting
	tuesday := now.AddDate(0, 0, 1)
	if _, ok := classStartToday(class, tuesday, time.UTC); ok {
		t.Errorf("Expected no start time on a non-meeting day")
	}
}

func TestClassStartToday_MissingSchedule(t *testing.T) {
	days := "MWF"
	bad := "25:99"

	cases := []*models.Class{
		{},
		{MeetingDays: &days},
		{MeetingDays: &days, StartTime: &bad},
	}
	now := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)

	for i, class := range cases {
		if _, ok := classStartToday(class, now, time.UTC); ok {
			t.Errorf("Case %d: expected no start time for incomplete schedule", i)
		}
	}
}
