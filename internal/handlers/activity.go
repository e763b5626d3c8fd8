package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pomo/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List activity events
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         activity
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2026-08-01)
// @Param        to    query   string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        type  query   string  false  "Event type"  Enums(SIGNUP,LOGIN,PASSWORD_RESET,PROJECT_CREATED,PROJECT_DELETED,TASK_CREATED,TASK_COMPLETED,TASK_DELETED,USER_DEACTIVATED)
// @Success      200   {object}  map[string]interface{}  "status, count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/activity [get]
// @Security     BearerAuth
func (h *Handler) getActivity(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": errToInvalid})
			return
		}
		// A date without a time component means the whole day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	events, err := h.services.Activity.List(c.Request.Context(), service.ActivityFilter{
		From: from,
		To:   to,
		Type: c.Query("type"),
	})
	if err != nil {
		h.writeError(c, "activity_list_failed", err, "from", from, "to", to)
		return
	}
	writeSuccess(c, http.StatusOK, gin.H{"count": len(events), "events": events})
}

// parseQueryTime accepts a few human-friendly layouts, normalizing to UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
