package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/mail"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[\w@.+-]+$`)

// AuthService implements the two-phase signup flow: claiming an identity
// issues a confirmation code by email, and redeeming that code proves
// email ownership and yields an access token. No passwords are stored;
// the code is the only secret.
type AuthService interface {
	SignUp(ctx context.Context, username, email string) error
	ObtainToken(ctx context.Context, username, confirmationCode string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	mailer   mail.Mailer
	logger   *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenService,
	mailer mail.Mailer,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
	}
}

// validateUsername enforces the shared username rules: "me" is reserved
// for the self-service endpoint and only word characters plus @.+- are
// allowed.
func validateUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return apperrors.Validation("username", `username "me" is not allowed`)
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.Validation("username", "username contains invalid characters")
	}
	return nil
}

// SignUp creates or refreshes the pending user row and dispatches a fresh
// confirmation code. Repeating a signup with the same username and email
// is an idempotent success that rotates the code; any other overlap with
// an existing account is a conflict.
func (s *authService) SignUp(ctx context.Context, username, email string) error {
	if err := validateUsername(username); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return apperrors.Conflict("username", "username is already registered with a different email")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, emailErr := s.userRepo.FindByEmail(ctx, email); emailErr == nil {
			return apperrors.Conflict("email", "email is already registered to another user")
		} else if !errors.Is(emailErr, gorm.ErrRecordNotFound) {
			return emailErr
		}
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// a concurrent signup may win the race; the constraint decides
			if repository.IsUniqueViolation(err) {
				return apperrors.Conflict("username", "user with this username or email already exists")
			}
			return err
		}
	default:
		return err
	}

	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)
	user.ConfirmationCode = &hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Dispatch must not block or fail the signup response; a delivery
	// failure is an operator concern, the user can simply retry.
	go func(to, username, code string) {
		if err := s.mailer.SendConfirmationCode(to, username, code); err != nil {
			s.logger.Error("failed to dispatch confirmation code",
				"username", username, "error", err)
		}
	}(user.Email, user.Username, code)

	return nil
}

// ObtainToken exchanges a confirmation code for a signed access token.
// The code is single-use: a successful exchange clears it.
func (s *authService) ObtainToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("user not found")
		}
		return "", err
	}

	if user.ConfirmationCode == nil {
		return "", apperrors.Authentication("confirmation_code", "no pending confirmation code, sign up first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationCode), []byte(confirmationCode)); err != nil {
		return "", apperrors.Authentication("confirmation_code", "invalid confirmation code")
	}

	user.ConfirmationCode = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return s.tokens.Issue(user)
}
