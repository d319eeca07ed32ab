package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/api/middleware"
	"github.com/propertydesk/crm-api/internal/core/domain"
)

// pageResponse is the payload the frontend hydrates a page from.
type pageResponse struct {
	Page    string         `json:"page"`
	Title   string         `json:"title"`
	Banner  string         `json:"banner,omitempty"`
	Message string         `json:"message,omitempty"`
	User    *domain.Claims `json:"user,omitempty"`
}

// errorBanners maps the error query codes the route guard emits to the
// text shown on the sign-in banner.
var errorBanners = map[string]string{
	"CredentialsSignin": "Invalid email or password.",
	"AccountDisabled":   "Your account has been disabled. Contact an administrator.",
	"AccessDenied":      "You do not have permission to view that page.",
	"SessionRequired":   "Please sign in to continue.",
}

// PageHandler serves the public and authenticated page payloads.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home handles GET /.
func (h *PageHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:  "home",
		Title: "PropertyDesk",
		User:  middleware.GetClaims(c),
	})
}

// SignIn handles GET /auth/signin. The guard redirects here with an
// error code and optional message which we resolve into banner text.
func (h *PageHandler) SignIn(c echo.Context) error {
	resp := pageResponse{
		Page:    "signin",
		Title:   "Sign in",
		Message: c.QueryParam("message"),
	}
	if code := c.QueryParam("error"); code != "" {
		banner, ok := errorBanners[code]
		if !ok {
			banner = "Unable to sign in. Please try again."
		}
		resp.Banner = banner
	}
	return c.JSON(http.StatusOK, resp)
}

// SignUp handles GET /auth/signup.
func (h *PageHandler) SignUp(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:  "signup",
		Title: "Create an account",
	})
}

// AuthError handles GET /auth/error.
func (h *PageHandler) AuthError(c echo.Context) error {
	code := c.QueryParam("error")
	banner, ok := errorBanners[code]
	if !ok {
		banner = "Something went wrong during authentication."
	}
	return c.JSON(http.StatusOK, pageResponse{
		Page:   "auth_error",
		Title:  "Authentication error",
		Banner: banner,
	})
}

// Static handles the remaining public marketing pages.
func (h *PageHandler) Static(page, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pageResponse{
			Page:  page,
			Title: title,
			User:  middleware.GetClaims(c),
		})
	}
}

// Profile handles GET /profile — echoes the session claims back.
func (h *PageHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	resp := pageResponse{
		Page:  "profile",
		Title: "My profile",
		User:  claims,
	}
	if code := c.QueryParam("error"); code != "" {
		if banner, ok := errorBanners[code]; ok {
			resp.Banner = banner
		}
	}
	return c.JSON(http.StatusOK, resp)
}
