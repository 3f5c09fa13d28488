package handlers

import (
	"os"
	"strings"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/flowdeskhq/flowdesk-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func secureCookies() bool {
	return strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true")
}

// CSRF issues the double-submit token cookie. Readable by the frontend,
// which mirrors it into the X-FD-CSRF header.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	token := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "fd_csrf",
		Value:    token,
		HTTPOnly: false,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"csrf": token})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Email = validation.NormalizeEmail(input.Email)
	input.Username = validation.NormalizeUsername(input.Username)
	if !validation.ValidateEmail(input.Email) {
		return httpx.BadRequest(c, "invalid_email", "Invalid email")
	}
	if !validation.ValidateUsername(input.Username) {
		return httpx.BadRequest(c, "invalid_username", "Username must be 3-32 letters, digits or underscores")
	}
	if !validation.ValidatePassword(input.Password) {
		return httpx.BadRequest(c, "weak_password", "Password is too short")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "registration_failed", err.Error())
	}

	h.setAuthCookies(c, result)
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Email = validation.NormalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Email and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", "Invalid email or password")
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

// Refresh rotates the refresh token. No CSRF check; the HttpOnly refresh
// cookie is the credential.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("fd_refresh")
	if refreshToken == "" {
		return httpx.Unauthorized(c, "missing_refresh_token", "Missing refresh token")
	}

	result, err := h.authService.Refresh(refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return httpx.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token")
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Cookies("fd_refresh")); err != nil {
		return httpx.Internal(c, "logout_failed")
	}
	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return httpx.NotFound(c, "not_found", "User not found")
	}
	return c.JSON(user.ToResponse())
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, result *service.AuthResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     "fd_access",
		Value:    result.Token,
		HTTPOnly: true,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(time.Hour),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "fd_refresh",
		Value:    result.RefreshToken,
		HTTPOnly: true,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "fd_access", Value: "", Path: "/", Expires: expired})
	c.Cookie(&fiber.Cookie{Name: "fd_refresh", Value: "", Path: "/api/auth", Expires: expired})
}
