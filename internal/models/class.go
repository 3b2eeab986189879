package models

import (
	"time"

	"github.com/google/uuid"
)

type Class struct {
	ID             uuid.UUID `json:"id"`
	CourseCode     string    `json:"course_code"`
	CourseName     string    `json:"course_name"`
	Section        *string   `json:"section"`
	ProfessorID    uuid.UUID `json:"professor_id"`
	Semester       string    `json:"semester"`
	Year           int       `json:"year"`
	Room           *string   `json:"room"`
	Description    *string   `json:"description"`
	Capacity       int       `json:"capacity"`
	Credits        int       `json:"credits"`
	MeetingDays    *string   `json:"meeting_days"` // e.g. "MWF", "TTH"
	StartTime      *string   `json:"start_time"`   // "15:04"
	EndTime        *string   `json:"end_time"`
	IsActive       bool      `json:"is_active"`
	EnrollmentOpen bool      `json:"enrollment_open"`
	EnrolledCount  int       `json:"enrolled_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Class) FullCourseName() string {
	return c.CourseCode + ": " + c.CourseName
}

func (c *Class) IsFull() bool {
	return c.EnrolledCount >= c.Capacity
}

type Enrollment struct {
	StudentID  uuid.UUID `json:"student_id"`
	ClassID    uuid.UUID `json:"class_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Status     string    `json:"status"` // active, dropped, completed
}
