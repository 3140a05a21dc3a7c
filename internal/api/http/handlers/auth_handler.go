package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/api/dto"
	"github.com/spec-kit/session-service/internal/auth"
	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/state"
)

// AuthHandler exposes the auth endpoints.
type AuthHandler struct {
	store   *state.Store
	session *auth.Session
}

// NewAuthHandler constructs handler.
func NewAuthHandler(store *state.Store, session *auth.Session) *AuthHandler {
	return &AuthHandler{store: store, session: session}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.store.Login(c.UserContext(), domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.SuccessResponse(dto.AuthResponse{
		Token:     result.Token,
		User:      result.User,
		ExpiresAt: result.ExpiresAt,
	}, "login successful"))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "username and email required")
	}

	result, err := h.store.Register(c.UserContext(), domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.SuccessResponse(dto.AuthResponse{
		Token:     result.Token,
		User:      result.User,
		ExpiresAt: result.ExpiresAt,
	}, "registration successful"))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.store.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse(nil, "logged out"))
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	user, err := h.store.Verify(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse(user, "token valid"))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.store.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse(dto.RefreshResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}, "token refreshed"))
}

// Session handles GET /auth/session, reporting the derived session status.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	ctx := c.UserContext()
	resp := dto.SessionResponse{Authenticated: h.session.Valid(ctx)}
	if resp.Authenticated {
		if user, ok := h.session.CurrentUser(ctx); ok {
			resp.User = user
		}
	}
	return c.JSON(dto.SuccessResponse(resp, "session status"))
}
