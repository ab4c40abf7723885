package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/db"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// DBClient is the account storage used by UserService. *db.DB and *db.MemoryUsers
// implement it.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, role, companyName string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
}

// UserService provides business logic for account registration and login
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// toTypesUser converts db.User to types.User, excluding the password hash
func toTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Email:       dbUser.Email,
		Name:        dbUser.Name,
		Role:        types.Role(dbUser.Role),
		CompanyName: dbUser.CompanyName,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Registration is a validated sign-up for either role.
type Registration struct {
	Name        string
	Email       string
	Password    string
	Role        types.Role
	CompanyName string
}

// Register creates an account with password authentication. Employers without a display
// name are named after their company.
func (s *UserService) Register(ctx context.Context, reg Registration) (*types.User, error) {
	if !reg.Role.Valid() {
		return nil, &ErrValidation{Field: "role", Message: "unknown role"}
	}
	email := strings.TrimSpace(reg.Email)
	name := strings.TrimSpace(reg.Name)
	if reg.Role == types.RoleEmployer && name == "" {
		name = strings.TrimSpace(reg.CompanyName)
	}

	exists, err := s.db.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, name, email, string(reg.Role), strings.TrimSpace(reg.CompanyName))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}
	return toTypesUser(dbUser), nil
}

// Login authenticates an account for the given role's login route.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest, role types.Role) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown accounts and wrong passwords are indistinguishable to the caller.
	if dbUser == nil || !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	if dbUser.Role != string(role) {
		return nil, &ErrRoleMismatch{Want: string(role)}
	}
	return toTypesUser(dbUser), nil
}

// GetUser returns the account with id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return toTypesUser(dbUser), nil
}

// SeedAccount creates an account with a password unless its email is taken, returning
// the existing or new user.
func (s *UserService) SeedAccount(ctx context.Context, reg Registration) (*types.User, error) {
	existing, err := s.db.GetUserByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seed account: %w", err)
	}
	if existing != nil {
		return toTypesUser(existing), nil
	}
	return s.Register(ctx, reg)
}
