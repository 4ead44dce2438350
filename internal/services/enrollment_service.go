package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cursus-lms/cursus-be/internal/models"
)

// EnrollmentServiceProvider defines the interface for enrollment services.
type EnrollmentServiceProvider interface {
	Enroll(userID, courseID string) (models.Enrollment, error)
	GetUserCourses(userID string) ([]models.Course, error)
}

// EnrollmentService provides business logic for course enrollment.
type EnrollmentService struct {
	db *sql.DB
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(db *sql.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll grants a user access to a course. Enrolling twice in the same
// course fails with ErrDuplicate and leaves the first enrollment untouched.
func (s *EnrollmentService) Enroll(userID, courseID string) (models.Enrollment, error) {
	if userID == "" || courseID == "" {
		return models.Enrollment{}, fmt.Errorf("userId and courseId are required: %w", ErrValidation)
	}

	var exists string
	if err := s.db.QueryRow("SELECT id FROM courses WHERE id = ?", courseID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return models.Enrollment{}, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
		}
		return models.Enrollment{}, err
	}

	err := s.db.QueryRow("SELECT id FROM enrollments WHERE user_id = ? AND course_id = ?", userID, courseID).Scan(&exists)
	if err == nil {
		return models.Enrollment{}, fmt.Errorf("enrollment: %w", ErrDuplicate)
	}
	if err != sql.ErrNoRows {
		return models.Enrollment{}, err
	}

	enrollment := models.Enrollment{
		ID:       uuid.New().String(),
		UserID:   userID,
		CourseID: courseID,
	}

	stmt, err := s.db.Prepare("INSERT INTO enrollments(id, user_id, course_id) VALUES(?, ?, ?)")
	if err != nil {
		return models.Enrollment{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(enrollment.ID, enrollment.UserID, enrollment.CourseID); err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

// GetUserCourses lists the courses a user is enrolled in.
func (s *EnrollmentService) GetUserCourses(userID string) ([]models.Course, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.description, c.instructor, c.duration, c.price, c.thumbnail, c.content_json, c.created_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = ?
		ORDER BY e.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}
