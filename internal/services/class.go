package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/models"
	"campustrack-backend/internal/repository"
)

// ClassService covers professor class management and student enrollment.
type ClassService struct {
	classes  *repository.ClassRepo
	students *repository.StudentRepo
}

func NewClassService(classes *repository.ClassRepo, students *repository.StudentRepo) *ClassService {
	return &ClassService{classes: classes, students: students}
}

type ClassInput struct {
	CourseCode     string  `json:"course_code"`
	CourseName     string  `json:"course_name"`
	Section        *string `json:"section"`
	Semester       string  `json:"semester"`
	Year           int     `json:"year"`
	Room           *string `json:"room"`
	Description    *string `json:"description"`
	Capacity       int     `json:"capacity"`
	Credits        int     `json:"credits"`
	MeetingDays    *string `json:"meeting_days"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	IsActive       *bool   `json:"is_active"`
	EnrollmentOpen *bool   `json:"enrollment_open"`
}

func validateClassInput(input ClassInput) map[string]string {
	fieldErrors := make(map[string]string)
	if input.CourseCode == "" {
		fieldErrors["course_code"] = "Course code is required"
	}
	if input.CourseName == "" {
		fieldErrors["course_name"] = "Course name is required"
	}
	if input.Semester == "" {
		fieldErrors["semester"] = "Semester is required"
	}
	if input.Year < 2000 || input.Year > 2100 {
		fieldErrors["year"] = "Year is out of range"
	}
	if input.Capacity <= 0 {
		fieldErrors["capacity"] = "Capacity must be positive"
	}
	if input.Credits <= 0 {
		fieldErrors["credits"] = "Credits must be positive"
	}
	for field, value := range map[string]*string{"start_time": input.StartTime, "end_time": input.EndTime} {
		if value == nil {
			continue
		}
		if _, err := time.Parse("15:04", *value); err != nil {
			fieldErrors[field] = "Time must be in HH:MM format"
		}
	}
	return fieldErrors
}

func (s *ClassService) CreateClass(ctx context.Context, professorID uuid.UUID, input ClassInput) (*models.Class, error) {
	if fieldErrors := validateClassInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	class := &models.Class{
		CourseCode:  input.CourseCode,
		CourseName:  input.CourseName,
		Section:     input.Section,
		ProfessorID: professorID,
		Semester:    input.Semester,
		Year:        input.Year,
		Room:        input.Room,
		Description: input.Description,
		Capacity:    input.Capacity,
		Credits:     input.Credits,
		MeetingDays: input.MeetingDays,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) UpdateClass(ctx context.Context, professorID, classID uuid.UUID, input ClassInput) (*models.Class, error) {
	if fieldErrors := validateClassInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	class, err := s.requireClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.ProfessorID != professorID {
		return nil, &ForbiddenError{Message: "You do not own this class"}
	}

	class.CourseCode = input.CourseCode
	class.CourseName = input.CourseName
	class.Section = input.Section
	class.Semester = input.Semester
	class.Year = input.Year
	class.Room = input.Room
	class.Description = input.Description
	class.Capacity = input.Capacity
	class.Credits = input.Credits
	class.MeetingDays = input.MeetingDays
	class.StartTime = input.StartTime
	class.EndTime = input.EndTime
	if input.IsActive != nil {
		class.IsActive = *input.IsActive
	}
	if input.EnrollmentOpen != nil {
		class.EnrollmentOpen = *input.EnrollmentOpen
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) GetClass(ctx context.Context, classID uuid.UUID) (*models.Class, error) {
	return s.requireClass(ctx, classID)
}

func (s *ClassService) ListOpenClasses(ctx context.Context) ([]*models.Class, error) {
	return s.classes.ListOpen(ctx)
}

func (s *ClassService) ListProfessorClasses(ctx context.Context, professorID uuid.UUID) ([]*models.Class, error) {
	return s.classes.ListByProfessor(ctx, professorID)
}

func (s *ClassService) Enroll(ctx context.Context, studentID, classID uuid.UUID) (*models.Class, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &StudentNotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	class, err := s.requireClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsActive || !class.EnrollmentOpen {
		return nil, &ConflictError{Message: "Enrollment is closed for this class"}
	}

	enrolled, err := s.classes.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, &ConflictError{Message: "Already enrolled in this class"}
	}

	if class.IsFull() {
		return nil, &ConflictError{Message: "Class is full"}
	}

	if err := s.classes.Enroll(ctx, classID, studentID); err != nil {
		return nil, err
	}
	class.EnrolledCount++
	return class, nil
}

func (s *ClassService) Drop(ctx context.Context, studentID, classID uuid.UUID) error {
	if _, err := s.requireClass(ctx, classID); err != nil {
		return err
	}

	enrolled, err := s.classes.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return err
	}
	if !enrolled {
		return &NotFoundError{Message: "Not enrolled in this class"}
	}

	return s.classes.Drop(ctx, classID, studentID)
}

// Roster returns the class's active students; only the owning professor may
// view it.
func (s *ClassService) Roster(ctx context.Context, professorID, classID uuid.UUID) ([]*models.Student, error) {
	class, err := s.requireClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.ProfessorID != professorID {
		return nil, &ForbiddenError{Message: "You do not own this class"}
	}
	return s.classes.Roster(ctx, classID)
}

func (s *ClassService) requireClass(ctx context.Context, classID uuid.UUID) (*models.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Class not found"}
		}
		return nil, err
	}
	return class, nil
}
