package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campustrack-backend/internal/models"
)

const reminderPollInterval = 1 * time.Minute

// ClassSchedule is the slice of the class repository the scheduler needs.
type ClassSchedule interface {
	ListOpen(ctx context.Context) ([]*models.Class, error)
	Roster(ctx context.Context, classID uuid.UUID) ([]*models.Student, error)
}

// ClassReminderScheduler notifies enrolled students shortly before a class
// starts. A redis SETNX key per (class, student, day) ensures each reminder
// fires at most once even across restarts.
type ClassReminderScheduler struct {
	classes       ClassSchedule
	prefs         NotificationStore
	notifications *NotificationService
	email         *EmailService
	dedupe        *redis.Client
	loc           *time.Location
	defaultLead   time.Duration
	stopChan      chan struct{}
}

func NewClassReminderScheduler(
	classes ClassSchedule,
	prefs NotificationStore,
	notifications *NotificationService,
	email *EmailService,
	dedupe *redis.Client,
	loc *time.Location,
	defaultLeadMinutes int,
) *ClassReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ClassReminderScheduler{
		classes:       classes,
		prefs:         prefs,
		notifications: notifications,
		email:         email,
		dedupe:        dedupe,
		loc:           loc,
		defaultLead:   time.Duration(defaultLeadMinutes) * time.Minute,
		stopChan:      make(chan struct{}),
	}
}

func (s *ClassReminderScheduler) Start() {
	go func() {
		// Run on startup as well as by interval.
		s.run(context.Background(), time.Now())

		ticker := time.NewTicker(reminderPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.run(context.Background(), time.Now())
			}
		}
	}()

	log.Printf("Class reminder scheduler started")
}

func (s *ClassReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ClassReminderScheduler) run(ctx context.Context, now time.Time) {
	now = now.In(s.loc)

	classes, err := s.classes.ListOpen(ctx)
	if err != nil {
		log.Printf("class reminders: failed to list classes: %v", err)
		return
	}

	for _, class := range classes {
		startsAt, ok := classStartToday(class, now, s.loc)
		if !ok {
			continue
		}

		until := startsAt.Sub(now)
		if until <= 0 || until > s.defaultLead {
			// Per-student leads below can only shorten the window, so skip
			// classes outside the widest configured lead.
			continue
		}

		s.remindRoster(ctx, class, startsAt, until, now)
	}
}

func (s *ClassReminderScheduler) remindRoster(ctx context.Context, class *models.Class, startsAt time.Time, until time.Duration, now time.Time) {
	students, err := s.classes.Roster(ctx, class.ID)
	if err != nil {
		log.Printf("class reminders: failed to load roster for %s: %v", class.CourseCode, err)
		return
	}

	startLabel := startsAt.Format("3:04 pm")

	for _, student := range students {
		prefs, err := s.prefs.GetPreferences(ctx, student.ID, "student")
		if err != nil {
			log.Printf("class reminders: failed to load preferences for %s: %v", student.ID, err)
			continue
		}
		if !prefs.ClassRemindersEnabled {
			continue
		}

		lead := time.Duration(prefs.ClassReminderMinutes) * time.Minute
		if lead <= 0 {
			lead = s.defaultLead
		}
		if until > lead {
			continue
		}

		key := fmt.Sprintf("class_reminder:%s:%s:%s", class.ID, student.ID, now.Format("2006-01-02"))
		set, err := s.dedupe.SetNX(ctx, key, "1", 24*time.Hour).Result()
		if err != nil {
			log.Printf("class reminders: dedupe check failed for %s: %v", key, err)
			continue
		}
		if !set {
			continue
		}

		if err := s.notifications.NotifyClassReminder(ctx, student.ID, class, startLabel); err != nil {
			log.Printf("class reminders: failed to notify %s: %v", student.ID, err)
			continue
		}

		if prefs.EmailEnabled {
			room := ""
			if class.Room != nil {
				room = *class.Room
			}
			if err := s.email.SendClassReminderEmail(student.Email, student.FirstName, class.FullCourseName(), room, startLabel); err != nil {
				log.Printf("class reminders: failed to email %s: %v", student.Email, err)
			}
		}
	}
}

// classStartToday resolves the class's start time on now's date, when the
// class meets on now's weekday.
func classStartToday(class *models.Class, now time.Time, loc *time.Location) (time.Time, bool) {
	if class.StartTime == nil || class.MeetingDays == nil {
		return time.Time{}, false
	}
	if !meetsOn(*class.MeetingDays, now.Weekday()) {
		return time.Time{}, false
	}

	start, err := time.Parse("15:04", *class.StartTime)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(now.Year(), now.Month(), now.Day(), start.Hour(), start.Minute(), 0, 0, loc), true
}

// meetsOn interprets compact meeting-day strings like "MWF" and "TTH".
// Thursday is "TH" (or "R"); a bare "T" is Tuesday.
func meetsOn(days string, weekday time.Weekday) bool {
	days = strings.ToUpper(days)
	switch weekday {
	case time.Monday:
		return strings.Contains(days, "M")
	case time.Tuesday:
		return strings.Contains(strings.ReplaceAll(days, "TH", ""), "T")
	case time.Wednesday:
		return strings.Contains(days, "W")
	case time.Thursday:
		return strings.Contains(days, "TH") || strings.Contains(days, "R")
	case time.Friday:
		return strings.Contains(days, "F")
	default:
		return false
	}
}
