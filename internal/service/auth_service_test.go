package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthService(userRepo *MockUserRepository, mailer *MockMailer) AuthService {
	tokens := NewTokenService("test-secret-at-least-32-characters!!", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(userRepo, tokens, mailer, logger)
}

func TestSignUp_UsernameValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"reserved me", "me"},
		{"reserved me uppercase", "ME"},
		{"space", "some user"},
		{"hash", "user#1"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			mailer := new(MockMailer)
			svc := newTestAuthService(userRepo, mailer)

			err := svc.SignUp(context.Background(), tt.username, "user@example.com")

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			userRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestSignUp_NewUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	userRepo.On("FindByUsername", mock.Anything, "newuser").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByEmail", mock.Anything, "new@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "newuser" && u.Email == "new@example.com" && u.Role == models.RoleUser
	})).Return(nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ConfirmationCode != nil
	})).Return(nil)
	mailer.On("SendConfirmationCode", "new@example.com", "newuser", mock.Anything).
		Return(nil).Maybe()

	err := svc.SignUp(context.Background(), "newuser", "new@example.com")

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestSignUp_RepeatIsIdempotent(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	existing := &models.User{
		ID:       "user-1",
		Username: "repeat",
		Email:    "repeat@example.com",
		Role:     models.RoleUser,
	}
	userRepo.On("FindByUsername", mock.Anything, "repeat").Return(existing, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ConfirmationCode != nil
	})).Return(nil)
	mailer.On("SendConfirmationCode", "repeat@example.com", "repeat", mock.Anything).
		Return(nil).Maybe()

	err := svc.SignUp(context.Background(), "repeat", "repeat@example.com")

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "Create")
	userRepo.AssertExpectations(t)
}

func TestSignUp_UsernameTakenByDifferentEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	existing := &models.User{Username: "taken", Email: "original@example.com"}
	userRepo.On("FindByUsername", mock.Anything, "taken").Return(existing, nil)

	err := svc.SignUp(context.Background(), "taken", "other@example.com")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Update")
}

func TestSignUp_EmailTakenByDifferentUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	userRepo.On("FindByUsername", mock.Anything, "fresh").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByEmail", mock.Anything, "claimed@example.com").
		Return(&models.User{Username: "owner", Email: "claimed@example.com"}, nil)

	err := svc.SignUp(context.Background(), "fresh", "claimed@example.com")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create")
}

func TestObtainToken_UserNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	userRepo.On("FindByUsername", mock.Anything, "ghost").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ObtainToken(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestObtainToken_NoPendingCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	userRepo.On("FindByUsername", mock.Anything, "nocode").
		Return(&models.User{Username: "nocode", ConfirmationCode: nil}, nil)

	_, err := svc.ObtainToken(context.Background(), "nocode", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestObtainToken_WrongCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	hash, _ := bcrypt.GenerateFromPassword([]byte("the-real-code"), bcrypt.MinCost)
	hashed := string(hash)
	userRepo.On("FindByUsername", mock.Anything, "pending").
		Return(&models.User{Username: "pending", ConfirmationCode: &hashed}, nil)

	_, err := svc.ObtainToken(context.Background(), "pending", "guessed-code")

	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
	userRepo.AssertNotCalled(t, "Update")
}

func TestObtainToken_SuccessClearsCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	mailer := new(MockMailer)
	svc := newTestAuthService(userRepo, mailer)

	hash, _ := bcrypt.GenerateFromPassword([]byte("the-real-code"), bcrypt.MinCost)
	hashed := string(hash)
	user := &models.User{
		ID:               "user-1",
		Username:         "pending",
		Role:             models.RoleUser,
		ConfirmationCode: &hashed,
	}
	userRepo.On("FindByUsername", mock.Anything, "pending").Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ConfirmationCode == nil
	})).Return(nil)

	token, err := svc.ObtainToken(context.Background(), "pending", "the-real-code")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	userRepo.AssertExpectations(t)

	// The issued token must round-trip through the token service
	claims, err := NewTokenService("test-secret-at-least-32-characters!!", time.Hour).Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "pending", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}
