package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/api/metrics"
	"github.com/propertydesk/crm-api/internal/api/middleware"
	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// AuthHandler serves the auth handshake: registration, login, session
// inspection/update, and logout.
type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Sign-up form fields"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  serverErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	id, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Mobile:          req.Mobile,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: ve.Message})
		}
		var de *domain.DuplicateError
		if errors.As(err, &de) {
			// Covers both the advisory pre-check and a store-level
			// duplicate-key race.
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: de.Error()})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, serverErrorResponse{
			Message: "internal server error",
			Error:   err.Error(),
		})
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{Message: "account created", ID: id})
}

// Login verifies credentials, issues a session cookie, and resolves the
// post-login redirect.
//
// @Summary      Login with credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and optional callbackUrl"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  authErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	claims, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Every denial reason collapses to the one code the sign-in page
		// understands.
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return c.JSON(http.StatusUnauthorized, authErrorResponse{
			Message: "invalid credentials",
			Code:    "CredentialsSignin",
		})
	}

	token, err := h.sessions.Issue(claims)
	if err != nil {
		return err
	}

	middleware.WriteSessionCookie(c, token, h.sessions.TTL())
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:       token,
		User:        claims,
		RedirectURL: h.sessions.ResolveRedirect(req.CallbackURL),
	})
}

// Session reports the current session claims; an absent or invalid token
// yields an empty session, not an error.
//
// @Summary      Inspect the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	token := middleware.BearerOrCookieToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	claims, err := h.sessions.Verify(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{User: claims})
}

// UpdateSession applies a partial claims patch (name/mobile only) and
// rotates the cookie.
//
// @Summary      Update session claims
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateSessionRequest  true  "Fields to patch"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/auth/session [post]
func (h *AuthHandler) UpdateSession(c echo.Context) error {
	token := middleware.BearerOrCookieToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	var req updateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	fresh, err := h.sessions.Update(c.Request().Context(), token, ports.ClaimsPatch{
		Name:   req.Name,
		Mobile: req.Mobile,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session invalid")
	}

	claims, err := h.sessions.Verify(c.Request().Context(), fresh)
	if err != nil {
		return err
	}

	middleware.WriteSessionCookie(c, fresh, h.sessions.TTL())
	return c.JSON(http.StatusOK, sessionResponse{User: claims})
}

// Logout revokes the current token and clears the cookie. Idempotent: a
// missing or invalid token still yields 204.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.BearerOrCookieToken(c); token != "" {
		if err := h.sessions.Revoke(c.Request().Context(), token); err != nil {
			return err
		}
	}
	middleware.WriteSessionCookie(c, "", 0)
	return c.NoContent(http.StatusNoContent)
}
