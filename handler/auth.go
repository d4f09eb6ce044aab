package handler

import (
	"errors"
	"net/http"

	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/service"
)

// loginHandler signs a user in, registering them first if they have no
// account yet. When no session can be issued because a confirmation email
// is on its way, the response says so instead of carrying tokens.
func (h *Handler) loginHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.LoginRequestBody
	if err := h.decodeJSON(w, r, &requestBody); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	session, pending, err := h.service.RegisterLogin(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.invalidCredentialsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	if pending {
		message := "a confirmation email has been sent, please confirm your address to finish signing in"
		err = h.encodeJSONWithMessage(w, http.StatusAccepted, message, nil, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"session": session}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// refreshHandler exchanges a refresh token for a new session.
func (h *Handler) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RefreshRequestBody
	if err := h.decodeJSON(w, r, &requestBody); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	session, err := h.service.RefreshSession(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrAuthentication):
			h.invalidAuthenticationTokenResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"session": session}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// profileHandler echoes the authenticated user.
func (h *Handler) profileHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	err := h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// logoutHandler revokes the session behind the request's bearer token.
func (h *Handler) logoutHandler(w http.ResponseWriter, r *http.Request) {
	token := h.readBearerToken(r)
	err := h.service.Logout(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthentication):
			h.invalidAuthenticationTokenResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "successfully signed out"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// forgotPasswordHandler asks the identity provider to email a password
// recovery link.
func (h *Handler) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ForgotPasswordRequestBody
	if err := h.decodeJSON(w, r, &requestBody); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err := h.service.ForgotPassword(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRateLimited):
			h.rateLimitExceededResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	message := "a password recovery email has been sent if the address is registered"
	err = h.encodeJSONWithMessage(w, http.StatusOK, message, nil, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
