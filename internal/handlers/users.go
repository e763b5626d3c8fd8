package handlers

import (
	"net/http"

	"pomo/internal/apperr"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest is the profile update payload. Password changes are
// rejected here; they go through /auth/updateMyPassword.
type UpdateUserRequest struct {
	Username        string `json:"username" example:"ana"`
	Email           string `json:"email" example:"ana@example.com"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"passwordConfirm,omitempty"`
}

// @Summary      List users
// @Description  Admin only.
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, results, data"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/users [get]
// @Security     BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list_users_failed", err)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{
		"results": len(users),
		"data":    gin.H{"users": users},
	})
}

// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "User ID"
// @Param        body  body  UpdateUserRequest  true  "Profile payload"
// @Success      200   {object}  map[string]interface{}  "status, user"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/users/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	// Accounts edit themselves only.
	if id != user.ID {
		h.writeError(c, "update_user_forbidden", apperr.Forbidden("You can only update your own profile"), "user_id", user.ID)
		return
	}

	var req UpdateUserRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		h.writeError(c, "update_user_password_in_body",
			apperr.Validation("This route is not for password updates. Please use /updateMyPassword"))
		return
	}

	updated, err := h.services.Users.UpdateProfile(c.Request.Context(), id, req.Username, req.Email)
	if err != nil {
		h.writeError(c, "update_user_failed", err, "user_id", id)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"user": updated})
}

// @Summary      Deactivate own account
// @Tags         users
// @Produce      json
// @Success      204  "no content"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/users/deleteMe [delete]
// @Security     BearerAuth
func (h *Handler) deleteMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.services.Users.Deactivate(c.Request.Context(), user.ID); err != nil {
		h.writeError(c, "delete_me_failed", err, "user_id", user.ID)
		return
	}
	c.Status(http.StatusNoContent)
}
