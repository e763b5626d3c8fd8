package handlers

import (
	"net/http"

	"pomo/internal/service"

	"github.com/gin-gonic/gin"
)

// SignUpRequest is the account creation payload.
type SignUpRequest struct {
	Username        string `json:"username" binding:"required" example:"ana"`
	Email           string `json:"email" binding:"required" example:"ana@example.com"`
	Password        string `json:"password" binding:"required" example:"secret123"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required" example:"secret123"`
}

// LogInRequest is the credentials payload.
type LogInRequest struct {
	Email    string `json:"email" binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  SignUpRequest  true  "Account payload"
// @Success      201   {object}  map[string]interface{}  "status, token, user"
// @Failure      400   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	user, token, err := h.services.SignUp(c.Request.Context(), service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.writeError(c, "sign_up_failed", err, "email", req.Email)
		return
	}

	writeSuccess(c, http.StatusCreated, gin.H{"token": token, "user": user})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  LogInRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "status, token, user"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) logIn(c *gin.Context) {
	var req LogInRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	user, token, err := h.services.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "log_in_failed", err, "email", req.Email)
		return
	}

	writeSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// @Summary      Request a password reset
// @Description  Mails a single-use reset link valid for 10 minutes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/forgotPassword [post]
func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	if err := h.services.ForgotPassword(c.Request.Context(), req.Email, h.resetURLBase(c)); err != nil {
		h.writeError(c, "forgot_password_failed", err, "email", req.Email)
		return
	}

	writeSuccess(c, http.StatusOK, gin.H{"message": "Token sent to email!"})
}

// resetURLBase reconstructs the absolute prefix the raw reset secret is
// appended to, from the incoming request.
func (h *Handler) resetURLBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/auth/resetPassword"
}

// @Summary      Reset password with a mailed token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path  string  true  "Raw reset secret from the email"
// @Param        body   body  object  true  "password, passwordConfirm"
// @Success      200    {object}  map[string]interface{}  "status, token, user"
// @Failure      400    {object}  map[string]string
// @Router       /auth/resetPassword/{token} [patch]
func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	user, token, err := h.services.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		h.writeError(c, "reset_password_failed", err)
		return
	}

	writeSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "passwordCurrent, password, passwordConfirm"
// @Success      200   {object}  map[string]interface{}  "status, token, user"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/updateMyPassword [patch]
// @Security     BearerAuth
func (h *Handler) updateMyPassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req updatePasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	updated, token, err := h.services.UpdatePassword(c.Request.Context(), user.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		h.writeError(c, "update_password_failed", err, "user_id", user.ID)
		return
	}

	writeSuccess(c, http.StatusOK, gin.H{"token": token, "user": updated})
}
