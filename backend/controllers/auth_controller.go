package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"portal/backend/auth"
	"portal/backend/session"
	"portal/backend/utils"
)

type AuthController struct {
	Manager *session.Manager
	Logger  *log.Logger
}

func NewAuthController(m *session.Manager, logger *log.Logger) *AuthController {
	return &AuthController{Manager: m, Logger: logger}
}

// Register godoc
// @Summary Register a new account
// @Description Creates the identity and its profile; sign-in is a separate step
// @Tags auth
// @Accept json
// @Produce json
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.FirstName == "" || input.LastName == "" {
		return utils.BadRequest(c, "First name and last name are required")
	}
	if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
		return utils.BadRequest(c, "Passwords do not match")
	}

	identity, err := ac.Manager.SignUp(c.UserContext(), input.Email, input.Password, map[string]string{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	})
	if errors.Is(err, auth.ErrWeakPassword) {
		return utils.BadRequest(c, "Password must be at least 6 characters")
	}
	if errors.Is(err, auth.ErrEmailRequired) {
		return utils.BadRequest(c, "Email is required")
	}
	if err != nil {
		ac.Logger.Printf("register failed: %v", err)
		return utils.InternalServerError(c, "Could not create account")
	}

	return utils.Created(c, fiber.Map{
		"user_id": identity.UserID,
		"email":   identity.Email,
	})
}

// Login godoc
// @Summary Sign in
// @Description Authenticates and resolves the role before responding
// @Tags auth
// @Accept json
// @Produce json
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	identity, err := ac.Manager.SignIn(c.UserContext(), input.Email, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return utils.Unauthorized(c, "Invalid credentials")
	}
	if err != nil {
		ac.Logger.Printf("login failed: %v", err)
		return utils.InternalServerError(c, "Could not sign in")
	}

	profile := ac.Manager.Profile()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"id":    identity.UserID,
			"email": identity.Email,
		},
		"role":    profile.Role,
		"profile": profile,
	})
}

// Logout clears the local session; the remote invalidation is best-effort and
// never blocks the response.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	ac.Manager.SignOut(c.UserContext())
	return utils.Success(c, fiber.StatusOK, fiber.Map{"signed_out": true})
}

// GetSession reports the session and role-resolution state the UI renders
// from.
func (ac *AuthController) GetSession(c *fiber.Ctx) error {
	state := ac.Manager.State()
	payload := fiber.Map{
		"state":      state.String(),
		"role_state": ac.Manager.RoleState().String(),
	}
	if s := ac.Manager.Session(); s != nil {
		payload["user"] = fiber.Map{
			"id":    s.UserID,
			"email": s.Email,
		}
		payload["expires_at"] = s.ExpiresAt
		payload["role"] = ac.Manager.Role()
		payload["display_name"] = ac.Manager.DisplayName()
	}
	return utils.Success(c, fiber.StatusOK, payload)
}
