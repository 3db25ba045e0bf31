package impl

import (
	"context"
	"testing"

	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	"freshharvest/internal/domain/repository"
	"freshharvest/internal/domain/service"
	mockRepo "freshharvest/internal/mocks/repository"
	mockSvc "freshharvest/internal/mocks/service"
	"freshharvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service   usecase.UserUsecase
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
	publisher *mockSvc.MockEventPublisher
}

func createTestUserService(t *testing.T) userServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	hasher.EXPECT().Hash(decoyPassword).Return("decoy_hash", nil).Once()

	service := NewUserService(UserServiceParams{
		UserRepo:  userRepo,
		Hasher:    hasher,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	})

	return userServiceFixtures{
		service:   service,
		userRepo:  userRepo,
		hasher:    hasher,
		publisher: publisher,
	}
}

func newRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Name:     "Ada Farmer",
		Email:    "  Ada@Example.com ",
		Password: "Password123!",
		UserType: "farmer",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := newRequestContext("req-1")

	var created *entity.User
	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			created = user
		}).
		Return(nil)
	fx.publisher.EXPECT().
		Publish(ctx, mock.MatchedBy(func(event *service.CatalogEvent) bool {
			return event.Type == service.EventUserRegistered && event.RequestID == "req-1" && event.UserID != ""
		})).
		Return(nil)

	user, err := fx.service.Register(ctx, newRegisterInput())
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "hashed_password", created.PasswordHash)
	assert.Equal(t, uuid.Version(7), created.ID.Version())

	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "Ada Farmer", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, entity.UserTypeFarmer, user.UserType)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	fx := createTestUserService(t)

	tests := []struct {
		name    string
		mutate  func(*usecase.RegisterInput)
		details string
	}{
		{"name", func(in *usecase.RegisterInput) { in.Name = "  " }, "name"},
		{"email", func(in *usecase.RegisterInput) { in.Email = "" }, "email"},
		{"password", func(in *usecase.RegisterInput) { in.Password = "" }, "password"},
		{"userType", func(in *usecase.RegisterInput) { in.UserType = "" }, "userType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := newRegisterInput()
			tt.mutate(input)

			_, err := fx.service.Register(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			assert.Contains(t, err.Error(), tt.details)
		})
	}
}

func TestUserService_Register_EmailAlreadyExists(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "ada@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "ada@example.com"}, nil)

	_, err := fx.service.Register(ctx, newRegisterInput())
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_Register_LosesConcurrentRace(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists"))

	_, err := fx.service.Register(ctx, newRegisterInput())
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_Register_HashFailures(t *testing.T) {
	t.Run("too long", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, repository.ErrUserNotFound)
		fx.hasher.EXPECT().Hash("Password123!").Return("", service.ErrPasswordTooLong)

		_, err := fx.service.Register(ctx, newRegisterInput())
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("hasher error", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, repository.ErrUserNotFound)
		fx.hasher.EXPECT().Hash("Password123!").Return("", errors.New("entropy exhausted"))

		_, err := fx.service.Register(ctx, newRegisterInput())
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
	})
}

func TestUserService_Register_LookupError(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to find user by email")

	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, dbErr)

	_, err := fx.service.Register(ctx, newRegisterInput())
	assert.ErrorIs(t, err, dbErr)
}

func TestUserService_Register_PublishFailureIsNotSurfaced(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.publisher.EXPECT().Publish(ctx, mock.Anything).Return(errors.New("broker down"))

	user, err := fx.service.Register(ctx, newRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestUserService_Authenticate_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	stored := &entity.User{
		ID:           uuid.New(),
		Name:         "Ada Farmer",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
		UserType:     entity.UserTypeFarmer,
	}
	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(stored, nil)
	fx.hasher.EXPECT().Check("Password123!", "hashed_password").Return(true)

	user, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{
		Email:    "ADA@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "hashed_password", stored.PasswordHash, "stored record must not be modified")
}

func TestUserService_Authenticate_FailuresAreIndistinguishable(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Check("Password123!", "decoy_hash").Return(false).Once()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "ada@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "hashed_password"}, nil)
	fx.hasher.EXPECT().Check("Password123!", "hashed_password").Return(false)

	_, unknownErr := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "nobody@example.com", Password: "Password123!"})
	_, wrongErr := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "ada@example.com", Password: "Password123!"})

	var unknownApp, wrongApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongErr, &wrongApp))

	assert.Equal(t, unknownApp.ErrorCode(), wrongApp.ErrorCode())
	assert.Equal(t, unknownApp.Message(), wrongApp.Message())
	assert.Equal(t, 401, wrongApp.HTTPCode())
}

func TestUserService_Authenticate_DecoyHashFailure(t *testing.T) {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	hasher.EXPECT().Hash(decoyPassword).Return("", errors.New("argon2: out of memory")).Once()

	srv := NewUserService(UserServiceParams{
		UserRepo:  userRepo,
		Hasher:    hasher,
		Publisher: mockSvc.NewMockEventPublisher(t),
		Logger:    newDiscardLogger(),
	})

	ctx := context.Background()
	userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)
	hasher.EXPECT().Check(decoyPassword, "").Return(false).Once()

	_, err := srv.Authenticate(ctx, &usecase.AuthenticateInput{Email: "nobody@example.com", Password: decoyPassword})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Authenticate_MissingFields(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Authenticate(context.Background(), &usecase.AuthenticateInput{Email: "ada@example.com"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = fx.service.Authenticate(context.Background(), &usecase.AuthenticateInput{Password: "x"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_Authenticate_StoreError(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("timeout"), "failed to find user by email")

	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, dbErr)

	_, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "ada@example.com", Password: "pw"})
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
