package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"freshharvest/internal/domain/entity"
	domainerrors "freshharvest/internal/domain/errors"
	mockusecase "freshharvest/internal/mocks/usecase"
	"freshharvest/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserTestEcho(t *testing.T) (*echo.Echo, *mockusecase.MockUserUsecase) {
	t.Helper()

	userUC := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(UserHandlerParams{UserUC: userUC})

	e := newTestEcho()
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)

	return e, userUC
}

func testUser() *entity.User {
	return &entity.User{
		ID:        uuid.MustParse("0190f5c2-8a4e-7b1c-9d2e-3f4a5b6c7d8e"),
		Name:      "Ada Farmer",
		Email:     "ada@example.com",
		UserType:  entity.UserTypeFarmer,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestUserHandler_Signup(t *testing.T) {
	e, userUC := newUserTestEcho(t)

	userUC.EXPECT().
		Register(mock.Anything, mock.MatchedBy(func(in *usecase.RegisterInput) bool {
			return in.Name == "Ada Farmer" && in.Email == "ada@example.com" &&
				in.Password == "s3cret-pass" && in.UserType == "farmer"
		})).
		Return(testUser(), nil).
		Once()

	rec := serve(e, http.MethodPost, "/signup",
		`{"name":"Ada Farmer","email":"ada@example.com","password":"s3cret-pass","userType":"farmer"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "s3cret-pass")

	env := decodeEnvelope(t, rec)
	assert.JSONEq(t, `{
		"id": "0190f5c2-8a4e-7b1c-9d2e-3f4a5b6c7d8e",
		"name": "Ada Farmer",
		"email": "ada@example.com",
		"userType": "farmer",
		"createdAt": "2024-03-01T10:00:00Z"
	}`, string(env.Data))
}

func TestUserHandler_Signup_Errors(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		e, _ := newUserTestEcho(t)

		rec := serve(e, http.MethodPost, "/signup", `{"name":"Ada","email":"ada@example.com"}`)

		env := requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_FAILED")
		assert.Contains(t, env.Error.Details, "password is required")
		assert.Contains(t, env.Error.Details, "userType is required")
	})

	t.Run("malformed body", func(t *testing.T) {
		e, _ := newUserTestEcho(t)

		rec := serve(e, http.MethodPost, "/signup", `{"name":`)

		requireErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e, userUC := newUserTestEcho(t)
		userUC.EXPECT().
			Register(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")).
			Once()

		rec := serve(e, http.MethodPost, "/signup",
			`{"name":"Ada","email":"ada@example.com","password":"pw","userType":"buyer"}`)

		requireErrorCode(t, rec, http.StatusConflict, "USER_ALREADY_EXISTS")
	})

	t.Run("hashing failure is a server error", func(t *testing.T) {
		e, userUC := newUserTestEcho(t)
		userUC.EXPECT().
			Register(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrPasswordHashFailed.WithDetails("argon2 out of memory")).
			Once()

		rec := serve(e, http.MethodPost, "/signup",
			`{"name":"Ada","email":"ada@example.com","password":"pw","userType":"buyer"}`)

		env := requireErrorCode(t, rec, http.StatusInternalServerError, "PASSWORD_HASH_FAILED")
		assert.Nil(t, env.Error.Details)
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e, userUC := newUserTestEcho(t)
		userUC.EXPECT().
			Authenticate(mock.Anything, &usecase.AuthenticateInput{Email: "ada@example.com", Password: "pw"}).
			Return(testUser(), nil).
			Once()

		rec := serve(e, http.MethodPost, "/login", `{"email":"ada@example.com","password":"pw"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		e, userUC := newUserTestEcho(t)
		userUC.EXPECT().
			Authenticate(mock.Anything, mock.Anything).
			RunAndReturn(func(context.Context, *usecase.AuthenticateInput) (*entity.User, error) {
				return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
			}).
			Once()

		rec := serve(e, http.MethodPost, "/login", `{"email":"ada@example.com","password":"wrong"}`)

		env := requireErrorCode(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
		assert.Nil(t, env.Error.Details)
		assert.NotContains(t, rec.Body.String(), "password mismatch")
	})

	t.Run("missing password", func(t *testing.T) {
		e, _ := newUserTestEcho(t)

		rec := serve(e, http.MethodPost, "/login", `{"email":"ada@example.com"}`)

		requireErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_FAILED")
	})
}
