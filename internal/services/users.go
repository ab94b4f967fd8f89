package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

const minPasswordLength = 8

// UserService manages admin panel accounts.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserInput holds the fields for a new account.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// UpdateUserInput holds optional changes to an account.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

// Authenticate checks email and password. Unknown accounts, disabled
// accounts and wrong passwords all fail with the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Storage("load user", err)
	}

	if !user.IsActive() || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := db.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, apperr.Storage("update last login", err)
	}
	user.LastLogin = &now

	return &user, nil
}

// Get loads a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage("load user", err)
	}
	return &user, nil
}

// List returns users newest first with the total count.
func (s *UserService) List(ctx context.Context, search string, pg utils.Pagination) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage("count users", err)
	}

	var users []models.User
	if err := query.Order("created_at desc").Limit(pg.Limit).Offset(pg.Offset).Find(&users).Error; err != nil {
		return nil, 0, apperr.Storage("list users", err)
	}
	return users, total, nil
}

// Create adds a new account with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	role := in.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation("role must be admin or viewer")
	}
	status := in.Status
	if status == "" {
		status = models.UserStatusActive
	}
	if !models.ValidUserStatus(status) {
		return nil, apperr.Validation("status must be active or disabled")
	}

	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperr.Storage("create user", err)
	}
	return &user, nil
}

// Update applies the non-nil fields of in to the user.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID == id {
		if in.Role != nil && *in.Role != user.Role {
			return nil, apperr.Forbidden("you cannot change your own role")
		}
		if in.Status != nil && *in.Status != user.Status {
			return nil, apperr.Forbidden("you cannot change your own status")
		}
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, apperr.Validation("role must be admin or viewer")
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if !models.ValidUserStatus(*in.Status) {
			return nil, apperr.Validation("status must be active or disabled")
		}
		user.Status = *in.Status
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, apperr.Validation("password must be at least 8 characters")
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, apperr.Storage("update user", err)
	}
	return user, nil
}

// Delete removes a user. An account cannot delete itself.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperr.Forbidden("you cannot delete your own account")
	}

	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Storage("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when no user holds email.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperr.Storage("check admin", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Name:         "Admin User",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, apperr.Storage("seed admin", err)
	}
	return true, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, except uuid.UUID) error {
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperr.Storage("check email", err)
	}
	if count > 0 {
		return apperr.New(apperr.ErrConflict, "email already exists")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apperr.Validation("email is invalid")
	}
	return nil
}
