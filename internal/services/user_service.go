package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cursus-lms/cursus-be/internal/models"
)

// Passwords shorter than this are rejected at registration.
const minPasswordLength = 8

// Hash of an arbitrary string, compared against when the email lookup
// misses so that the miss path costs the same as a real comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	Register(username, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	UpdateProfile(id, username, email, profilePicture string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	var picture sql.NullString
	row := s.db.QueryRow("SELECT id, username, email, profile_picture, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &picture, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	user.ProfilePicture = picture.String
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	var picture sql.NullString
	row := s.db.QueryRow("SELECT id, username, email, password_hash, profile_picture, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &picture, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	user.ProfilePicture = picture.String
	return user, nil
}

// Register creates a new user. The password is hashed here, at the call
// site of the store, so no other write path can persist a plaintext value.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("username, email and password are required: %w", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return models.User{}, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, ErrValidation)
	}

	var existing string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ? OR username = ?", email, username).Scan(&existing)
	if err == nil {
		return models.User{}, fmt.Errorf("username or email: %w", ErrDuplicate)
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password both return ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return models.User{}, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile updates a user's non-sensitive information. Empty arguments
// leave the corresponding field unchanged.
func (s *UserService) UpdateProfile(id, username, email, profilePicture string) (models.User, error) {
	current, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if username == "" {
		username = current.Username
	}
	if email == "" {
		email = current.Email
	}
	if profilePicture == "" {
		profilePicture = current.ProfilePicture
	}

	var existing string
	err = s.db.QueryRow("SELECT id FROM users WHERE (email = ? OR username = ?) AND id != ?", email, username, id).Scan(&existing)
	if err == nil {
		return models.User{}, fmt.Errorf("username or email: %w", ErrDuplicate)
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	stmt, err := s.db.Prepare("UPDATE users SET username = ?, email = ?, profile_picture = ? WHERE id = ?")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(username, email, profilePicture, id)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// UpdatePassword verifies the current password, then hashes and sets a new
// password for a user.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, ErrValidation)
	}

	var currentHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&currentHash); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id)
	return err
}
