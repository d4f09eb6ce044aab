package service

import (
	"context"
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/internal/identity"
	"github.com/csy100/touch-api/internal/validator"
)

type auth interface {
	RegisterLogin(body dto.LoginRequestBody) (*identity.Session, bool, error)
	RefreshSession(body dto.RefreshRequestBody) (*identity.Session, error)
	Logout(accessToken string) error
	ForgotPassword(body dto.ForgotPasswordRequestBody) error
	AuthenticateToken(token string) (*data.User, error)
}

const identityTimeout = 10 * time.Second

// RegisterLogin service signs a user in, registering them first if needed.
// One endpoint covers the whole flow: a sign-in that fails because the email
// is unconfirmed triggers a fresh confirmation email, and one that fails
// because the account does not exist triggers sign-up. The second return
// value reports that a confirmation email is pending and no session was
// issued.
func (s *service) RegisterLogin(body dto.LoginRequestBody) (*identity.Session, bool, error) {
	v := validator.New()
	validateEmail(v, body.Email)
	v.Check(body.Password != "", "password", "must be provided")
	v.Check(len(body.Password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(body.Password) <= 72, "password", "must not be more than 72 bytes long")
	if !v.Valid() {
		return nil, false, s.failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()
	session, err := s.identity.SignIn(ctx, body.Email, body.Password)
	if err == nil {
		return session, false, nil
	}
	switch identity.KindOf(err) {
	case identity.KindEmailNotConfirmed:
		err = s.identity.ResendConfirmation(ctx, body.Email)
		if err != nil && identity.KindOf(err) != identity.KindRateLimited {
			return nil, false, err
		}
		return nil, true, nil
	case identity.KindInvalidCredentials:
		_, err = s.identity.SignUp(ctx, body.Email, body.Password)
		if err != nil {
			// The account exists after all, so the password was simply wrong.
			if identity.KindOf(err) == identity.KindUserExists {
				return nil, false, ErrInvalidCredentials
			}
			return nil, false, err
		}
		return nil, true, nil
	default:
		return nil, false, err
	}
}

// RefreshSession service exchanges a refresh token for a new session.
func (s *service) RefreshSession(body dto.RefreshRequestBody) (*identity.Session, error) {
	v := validator.New()
	v.Check(body.RefreshToken != "", "refresh_token", "must be provided")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()
	session, err := s.identity.RefreshSession(ctx, body.RefreshToken)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindInvalidToken, identity.KindInvalidCredentials:
			return nil, ErrAuthentication
		default:
			return nil, err
		}
	}
	return session, nil
}

// Logout service revokes the session behind an access token.
func (s *service) Logout(accessToken string) error {
	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()
	err := s.identity.SignOut(ctx, accessToken)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindInvalidToken:
			return ErrAuthentication
		default:
			return err
		}
	}
	return nil
}

// ForgotPassword service asks the provider to email a password recovery
// link.
func (s *service) ForgotPassword(body dto.ForgotPasswordRequestBody) error {
	v := validator.New()
	validateEmail(v, body.Email)
	if !v.Valid() {
		return s.failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()
	err := s.identity.SendPasswordReset(ctx, body.Email)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindRateLimited:
			return ErrRateLimited
		default:
			return err
		}
	}
	return nil
}

// AuthenticateToken service resolves an access token to its user. Invalid
// and expired tokens map to ErrAuthentication.
func (s *service) AuthenticateToken(token string) (*data.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), identityTimeout)
	defer cancel()
	providerUser, err := s.identity.GetUser(ctx, token)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindInvalidToken:
			return nil, ErrAuthentication
		default:
			return nil, err
		}
	}
	user := &data.User{
		ID:             providerUser.ID,
		Email:          providerUser.Email,
		EmailConfirmed: providerUser.EmailConfirmed(),
		Metadata:       providerUser.Metadata,
		CreatedAt:      providerUser.CreatedAt,
		UpdatedAt:      providerUser.UpdatedAt,
	}
	return user, nil
}

func validateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}
