package handlers

import (
	"net/http"

	"pomo/internal/apperr"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// writeError maps a service error onto the wire contract
// {status:"error", message}. Internal faults get logged with their real
// cause; the client only ever sees the sanitized message.
func (h *Handler) writeError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := apperr.StatusOf(err)
	if h.log != nil && code >= http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(code, gin.H{
		"status":  statusError,
		"message": apperr.MessageOf(err),
	})
}

// abortError is writeError for middleware: it also stops the chain.
func (h *Handler) abortError(c *gin.Context, logKey string, err error) {
	code := apperr.StatusOf(err)
	if h.log != nil && code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, "err", err)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"status":  statusError,
		"message": apperr.MessageOf(err),
	})
}

// writeSuccess sends {status:"success"} merged with extra fields.
func writeSuccess(c *gin.Context, code int, extra gin.H) {
	resp := gin.H{"status": statusSuccess}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(code, resp)
}

// bindJSONOrBadRequest tries to bind the request body into dst and
// writes a 400 on failure. Returns false if the request was already
// handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  statusError,
			"message": "invalid body: " + err.Error(),
		})
		return false
	}
	return true
}
