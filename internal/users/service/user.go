package service

import (
	"context"
	"errors"
	"time"

	userserrors "clinic/internal/users/errors"
	"clinic/internal/users/repository"
	"clinic/internal/users/validator"
	"clinic/pkg/auth"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/model"
	"clinic/pkg/sanitizer"
	"clinic/pkg/validation"

	"golang.org/x/sync/errgroup"
)

type UserService interface {
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)
	Login(ctx context.Context, creds *model.Credentials) (*model.AuthToken, error)
	GetByID(ctx context.Context, actor *auth.Claims, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, actor *auth.Claims, id string, updates *model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, actor *auth.Claims, id string) error
	EnsureAdmin(ctx context.Context, email, password string) (*model.User, error)
	CurrentRole(ctx context.Context, id string) (model.Role, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    *auth.TokenIssuer
	clock     clock.Clock
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens *auth.TokenIssuer,
	clk clock.Clock,
	cfg *config.Config,
) UserService {
	if clk == nil {
		clk = clock.System
	}
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		clock:     clk,
		cfg:       cfg,
	}
}

// Register creates a regular user. Roles are only granted by admins.
func (s *userService) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	if reg == nil {
		return nil, apperrors.InvalidInput("Registration cannot be empty")
	}
	reg.Name = sanitizer.NormalizeName(reg.Name)
	reg.Email = sanitizer.NormalizeEmail(reg.Email)

	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "email", reg.Email, "error", err)
		return nil, validation.AppError("Registration validation failed", err)
	}

	return s.create(ctx, reg.Name, reg.Email, reg.Password, model.RoleUser)
}

func (s *userService) create(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	now := s.now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			s.cfg.Log.Warn("Registration with existing email", "email", email)
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", email, "error", err)
		return nil, mongotx.StoreError("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Login(ctx context.Context, creds *model.Credentials) (*model.AuthToken, error) {
	if creds == nil {
		return nil, apperrors.InvalidInput("Credentials cannot be empty")
	}
	creds.Email = sanitizer.NormalizeEmail(creds.Email)
	if err := s.validator.ValidateCredentials(creds); err != nil {
		return nil, validation.AppError("Login validation failed", err)
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "email", creds.Email, "error", err)
		return nil, mongotx.StoreError("Failed to log in", err)
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		s.cfg.Log.Warn("Login with wrong password", "id", user.ID)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return &model.AuthToken{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, actor *auth.Claims, id string) (*model.User, error) {
	if err := authorize(actor, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to retrieve user")
	}
	return user, nil
}

// CurrentRole reads the stored role of a user for the request guard.
func (s *userService) CurrentRole(ctx context.Context, id string) (model.Role, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", s.mapLookupError(id, err, "Failed to resolve user role")
	}
	return user.Role, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var users []*model.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count users", "error", err)
			return mongotx.StoreError("Failed to count users", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.repo.FindAll(gctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all users", "limit", limit, "offset", offset, "error", err)
			return mongotx.StoreError("Failed to retrieve users", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if users == nil {
		users = []*model.User{}
	}
	return users, count, nil
}

func (s *userService) Update(ctx context.Context, actor *auth.Claims, id string, updates *model.UserUpdate) (*model.User, error) {
	if err := authorize(actor, id); err != nil {
		return nil, err
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("User update cannot be empty")
	}
	if updates.Role != "" && !actor.IsAdmin() {
		s.cfg.Log.Warn("Non-admin attempted role change", "actor", actor.Sub, "id", id)
		return nil, apperrors.Forbidden("Only admins can change roles")
	}

	updates.Name = sanitizer.NormalizeName(updates.Name)
	updates.Email = sanitizer.NormalizeEmail(updates.Email)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("User validation failed", "id", id, "error", err)
		return nil, validation.AppError("User validation failed", err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to check user existence")
	}

	if updates.Name != "" {
		user.Name = updates.Name
	}
	if updates.Email != "" {
		user.Email = updates.Email
	}
	if updates.Role != "" {
		user.Role = updates.Role
	}
	if updates.Password != "" {
		hash, err := auth.HashPassword(updates.Password)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, id, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, s.mapLookupError(id, err, "Failed to update user")
	}

	s.cfg.Log.Info("User updated successfully", "id", id, "actor", actor.Sub)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *auth.Claims, id string) error {
	if err := authorize(actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(id, err, "Failed to delete user")
	}

	s.cfg.Log.Info("User deleted successfully", "id", id, "actor", actor.Sub)
	return nil
}

// EnsureAdmin creates the bootstrap admin, or promotes an existing account
// with that email.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("Admin email and password are required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == model.RoleAdmin {
			return existing, nil
		}
		existing.Role = model.RoleAdmin
		existing.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, existing.ID, existing); err != nil {
			return nil, mongotx.StoreError("Failed to promote admin", err)
		}
		s.cfg.Log.Info("Existing user promoted to admin", "id", existing.ID)
		return existing, nil
	case errors.Is(err, userserrors.ErrNotFound):
		return s.create(ctx, "Administrator", email, password, model.RoleAdmin)
	default:
		return nil, mongotx.StoreError("Failed to look up admin", err)
	}
}

func authorize(actor *auth.Claims, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if actor == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	if !actor.CanAccess(id) {
		return apperrors.Forbidden("Cannot access another user's account")
	}
	return nil
}

func (s *userService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func (s *userService) mapLookupError(id string, err error, message string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return mongotx.StoreError(message, err)
}
