// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "freshharvest/internal/delivery/context"
	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/domain/repository"
	"freshharvest/internal/domain/service"
	"freshharvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// decoyPassword is hashed once with the configured hasher. Unknown emails are
// checked against that hash so a failed lookup costs about as much as a wrong
// password.
const decoyPassword = "freshharvest-decoy-password"

// userService implements the UserUsecase interface.
type userService struct {
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	publisher service.EventPublisher
	logger    *slog.Logger
	decoyHash string
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	// An empty decoy never matches, so logins stay correct if hashing fails.
	decoyHash, err := params.Hasher.Hash(decoyPassword)
	if err != nil {
		params.Logger.Error("Failed to derive decoy password hash", slog.Any("error", err))
		decoyHash = ""
	}

	return &userService{
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		publisher: params.Publisher,
		logger:    params.Logger,
		decoyHash: decoyHash,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. The email check runs first for a friendly
// conflict; the UNIQUE constraint still decides concurrent registrations.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	userType := strings.TrimSpace(input.UserType)

	if missing := missingFields(map[string]string{
		"name":     name,
		"email":    email,
		"password": input.Password,
		"userType": userType,
	}, "name", "email", "password", "userType"); missing != "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails(missing)
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email), slog.String("userType", userType))

	_, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		srv.log(ctx).Warn("Registration rejected, email already in use", slog.String("email", email))

		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, service.ErrPasswordTooLong) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("password is too long")
		}
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate user id")
	}

	newUser := &entity.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		UserType:     entity.UserType(userType),
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Warn("Registration lost a concurrent race for the email", slog.String("email", email))
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	event := newCatalogEvent(ctx, service.EventUserRegistered)
	event.UserID = newUser.ID.String()
	publishEvent(ctx, srv.publisher, srv.log(ctx), event)

	return newUser.WithoutCredentials(), nil
}

// Authenticate verifies an email and password pair.
func (srv *userService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)

	if missing := missingFields(map[string]string{
		"email":    email,
		"password": input.Password,
	}, "email", "password"); missing != "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails(missing)
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.hasher.Check(input.Password, srv.decoyHash)
		srv.log(ctx).Warn("Login failed", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	srv.log(ctx).Info("User authenticated", slog.Any("userID", user.ID))

	return user.WithoutCredentials(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// missingFields returns a message naming the empty fields in the given order,
// or "" when all are present.
func missingFields(values map[string]string, order ...string) string {
	var missing []string
	for _, field := range order {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return ""
	}

	return "missing required fields: " + strings.Join(missing, ", ")
}
