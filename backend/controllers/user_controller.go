package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"portal/backend/session"
	"portal/backend/store"
	"portal/backend/utils"
)

type UserController struct {
	Manager *session.Manager
	Store   store.Store
	Logger  *log.Logger
}

func NewUserController(m *session.Manager, st store.Store, logger *log.Logger) *UserController {
	return &UserController{Manager: m, Store: st, Logger: logger}
}

// GetProfile godoc
// @Summary Get the signed-in profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	profile := uc.Manager.RefreshProfile(c.UserContext())
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"profile":      profile,
		"display_name": uc.Manager.DisplayName(),
		"role_state":   uc.Manager.RoleState().String(),
	})
}

// UpdateProfile changes the self-service name fields. Role is never writable
// from here.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.FirstName == "" || input.LastName == "" {
		return utils.BadRequest(c, "First name and last name are required")
	}

	userID := uc.Manager.UserID()
	if err := uc.Store.Profiles().UpdateNames(c.UserContext(), userID, input.FirstName, input.LastName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Profile not found")
		}
		uc.Logger.Printf("profile update for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not update profile")
	}

	profile := uc.Manager.RefreshProfile(c.UserContext())
	return utils.Success(c, fiber.StatusOK, fiber.Map{"profile": profile})
}

// DeleteUser removes another user's account through the privileged backend
// procedure. Deleting your own account is rejected before any remote call.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("id"))
	if err != nil || targetID <= 0 {
		return utils.BadRequest(c, "Invalid user ID")
	}
	if uint(targetID) == uc.Manager.UserID() {
		return utils.BadRequest(c, "You cannot delete your own account")
	}

	_, err = uc.Store.RPC(c.UserContext(), store.RPCDeleteAccount, map[string]interface{}{
		"user_id": uint(targetID),
	})
	if err != nil {
		uc.Logger.Printf("delete account %d failed: %v", targetID, err)
		return utils.InternalServerError(c, "Could not delete account")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
