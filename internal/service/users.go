package service

import (
	"context" // Request-scoped context
	"errors"  // Error matching
	"strings" // Input normalization

	"storefront/internal/domain" // Importing domain models
	"storefront/internal/utils"  // Password hashing

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// ErrNothingToUpdate is returned by Update when the patch carries no fields
var ErrNothingToUpdate = errors.New("no data provided for update")

// UserService registers, authenticates and updates users
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Identity is what a successful login hands to the session issuer
type Identity struct {
	UserID string
	Role   string
	User   domain.PublicUser
}

// UserPatch carries the optional fields of a profile update
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// normalizeEmail lower-cases and trims an email so uniqueness is case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with the default role
func (s *UserService) Register(ctx context.Context, name, email, password string) (domain.PublicUser, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return domain.PublicUser{}, domain.Validation("Name, email, and password are required")
	}
	if len(password) < utils.MinPasswordLength {
		return domain.PublicUser{}, domain.Validation("Password must be at least 8 characters long")
	}
	if len(password) > utils.MaxPasswordLength {
		return domain.PublicUser{}, domain.Validation("Password must be at most 72 bytes long")
	}
	var count int64 // Check whether the email is already registered
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return domain.PublicUser{}, domain.Internal("Failed to check email", err)
	}
	if count > 0 {
		return domain.PublicUser{}, domain.Conflict("Email already registered")
	}
	hash, err := utils.HashPassword(password) // Hash the password before storing
	if err != nil {
		return domain.PublicUser{}, domain.Internal("Failed to hash password", err)
	}
	user := domain.User{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent registration can win between the check and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.PublicUser{}, domain.Conflict("Email already registered")
		}
		return domain.PublicUser{}, domain.Internal("Failed to create user", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,    // New user ID
		"email":   user.Email, // Registered email
	}).Info("User registered")
	return user.Public(), nil
}

// Authenticate checks credentials and returns the identity to put in a session
func (s *UserService) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, domain.Validation("Email and password are required")
	}
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, domain.Unauthorized("Invalid credentials")
		}
		return Identity{}, domain.Internal("Failed to load user", err)
	}
	// Compare provided password with stored hash
	if !utils.CheckPassword(user.PasswordHash, password) {
		return Identity{}, domain.Unauthorized("Invalid credentials")
	}
	return Identity{UserID: user.ID, Role: user.Role, User: user.Public()}, nil
}

// Get returns the public profile of a user
func (s *UserService) Get(ctx context.Context, id string) (domain.PublicUser, error) {
	user, err := s.load(ctx, s.db, id)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) load(ctx context.Context, tx *gorm.DB, id string) (domain.User, error) {
	var user domain.User
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, domain.NotFound("User not found")
		}
		return user, domain.Internal("Failed to load user", err)
	}
	return user, nil
}

// Update applies a partial profile update for the user id taken from the session
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (domain.PublicUser, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.PublicUser{}, domain.Validation("Name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return domain.PublicUser{}, domain.Validation("Email cannot be empty")
		}
		updates["email"] = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < utils.MinPasswordLength {
			return domain.PublicUser{}, domain.Validation("New password must be at least 8 characters long")
		}
		if len(*patch.Password) > utils.MaxPasswordLength {
			return domain.PublicUser{}, domain.Validation("New password must be at most 72 bytes long")
		}
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return domain.PublicUser{}, domain.Internal("Failed to hash password", err)
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return domain.PublicUser{}, ErrNothingToUpdate
	}

	var user domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if email, ok := updates["email"]; ok && email != current.Email {
			var count int64 // Email must stay unique across users
			if err := tx.Model(&domain.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return domain.Internal("Failed to check email", err)
			}
			if count > 0 {
				return domain.Conflict("Email already registered")
			}
		}
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.Conflict("Email already registered")
			}
			return domain.Internal("Failed to update user", err)
		}
		user, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.PublicUser{}, err
	}
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": id,     // Updated user ID
		"fields":  fields, // Changed columns
	}).Info("User profile updated")
	return user.Public(), nil
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []domain.PublicUser `json:"users"`       // List of users
	Page       int                 `json:"page"`        // Current page
	PageSize   int                 `json:"page_size"`   // Page size
	Total      int64               `json:"total"`       // Total number of users
	TotalPages int                 `json:"total_pages"` // Total pages
}

// List returns one page of users, oldest first
func (s *UserService) List(ctx context.Context, page, pageSize int) (UserPage, error) {
	if page < 1 {
		page = 1 // Default page number
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20 // Default page size
	}
	var total int64 // Total user count
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return UserPage{}, domain.Internal("Failed to count users", err)
	}
	var users []domain.User
	offset := (page - 1) * pageSize // Calculate offset for pagination
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return UserPage{}, domain.Internal("Failed to fetch users", err)
	}
	out := make([]domain.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return UserPage{
		Users:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (int(total) + pageSize - 1) / pageSize, // Calculate total pages
	}, nil
}
