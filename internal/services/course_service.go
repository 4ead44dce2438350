package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cursus-lms/cursus-be/internal/models"
)

// CourseServiceProvider defines the interface for catalog services.
type CourseServiceProvider interface {
	GetAllCourses() ([]models.Course, error)
	GetCourseByID(id string) (models.Course, error)
	CreateCourse(course models.Course) (models.Course, error)
	UpdateCourse(id string, course models.Course) (models.Course, error)
	DeleteCourse(id string) error
}

// CourseService provides business logic for the course catalog.
type CourseService struct {
	db *sql.DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *sql.DB) *CourseService {
	return &CourseService{db: db}
}

// scanCourse is a helper to scan a course from a row or rows object.
func scanCourse(scanner interface{ Scan(...interface{}) error }) (models.Course, error) {
	var course models.Course
	var desc, instructor, duration, thumbnail, content sql.NullString

	err := scanner.Scan(
		&course.ID, &course.Title, &desc, &instructor, &duration,
		&course.Price, &thumbnail, &content, &course.CreatedAt,
	)
	if err != nil {
		return course, err
	}

	course.Description = desc.String
	course.Instructor = instructor.String
	course.Duration = duration.String
	course.Thumbnail = thumbnail.String
	course.ContentJSON = content.String

	course.PrepareForAPI()
	return course, nil
}

const courseColumns = "id, title, description, instructor, duration, price, thumbnail, content_json, created_at"

// GetAllCourses retrieves all courses from the database.
func (s *CourseService) GetAllCourses() ([]models.Course, error) {
	rows, err := s.db.Query("SELECT " + courseColumns + " FROM courses ORDER BY created_at DESC")
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

// GetCourseByID retrieves a single course by its ID.
func (s *CourseService) GetCourseByID(id string) (models.Course, error) {
	row := s.db.QueryRow("SELECT "+courseColumns+" FROM courses WHERE id = ?", id)

	course, err := scanCourse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return models.Course{}, err
	}
	return course, nil
}

// CreateCourse adds a new course to the catalog.
func (s *CourseService) CreateCourse(course models.Course) (models.Course, error) {
	if course.Title == "" {
		return models.Course{}, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if course.Price < 0 {
		return models.Course{}, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}

	course.ID = uuid.New().String()
	course.PrepareForSave()

	stmt, err := s.db.Prepare(`
		INSERT INTO courses(id, title, description, instructor, duration, price, thumbnail, content_json)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Course{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		course.ID, course.Title, course.Description, course.Instructor,
		course.Duration, course.Price, course.Thumbnail, course.ContentJSON,
	)
	if err != nil {
		return models.Course{}, err
	}
	return s.GetCourseByID(course.ID)
}

// UpdateCourse updates an existing course.
func (s *CourseService) UpdateCourse(id string, course models.Course) (models.Course, error) {
	if course.Price < 0 {
		return models.Course{}, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	course.PrepareForSave()

	stmt, err := s.db.Prepare(`
		UPDATE courses SET title = ?, description = ?, instructor = ?, duration = ?,
		                   price = ?, thumbnail = ?, content_json = ?
		WHERE id = ?`)
	if err != nil {
		return models.Course{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(
		course.Title, course.Description, course.Instructor, course.Duration,
		course.Price, course.Thumbnail, course.ContentJSON, id,
	)
	if err != nil {
		return models.Course{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return s.GetCourseByID(id)
}

// DeleteCourse removes a course from the catalog.
func (s *CourseService) DeleteCourse(id string) error {
	res, err := s.db.Exec("DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}
