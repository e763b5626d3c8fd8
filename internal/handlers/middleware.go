package handlers

import (
	"errors"
	"strconv"

	"pomo/internal/apperr"
	"pomo/internal/models"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "currentUser"

var errNoAuthUser = errors.New("no authenticated user in request context")

// authenticate resolves the bearer token to a live account and stores
// it in the Gin context for downstream handlers.
func (h *Handler) authenticate(c *gin.Context) {
	user, err := h.services.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.abortError(c, "authenticate_failed", err)
		return
	}
	c.Set(ctxUserKey, user)
	c.Next()
}

// requireAdmin gates a route to admin accounts. Composed after
// authenticate, never standalone.
func (h *Handler) requireAdmin(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.services.Authorize(user, models.RoleAdmin); err != nil {
		h.abortError(c, "authorize_failed", err)
		return
	}
	c.Next()
}

// currentUser returns the account stored by authenticate. A miss means
// the route was wired without the middleware; that is a server bug,
// not a client error.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ctxUserKey)
	if !exists {
		h.abortError(c, "missing_authenticated_user", apperr.Internal(errNoAuthUser))
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		h.abortError(c, "missing_authenticated_user", apperr.Internal(errNoAuthUser))
		return nil, false
	}
	return user, true
}

// parseIDParam reads a positive integer path parameter.
func (h *Handler) parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		h.writeError(c, "bad_path_param", apperr.Validation("Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}
