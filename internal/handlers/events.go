package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reclaim_control/internal/models"
	"reclaim_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryTimeLayouts = []string{time.RFC3339, layoutDateTime, layoutDate}

// parseQueryTime accepts RFC3339, "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" and returns UTC.
// A date-only upper bound covers the whole day.
func parseQueryTime(s string, upper bool) (time.Time, error) {
	for _, layout := range queryTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if upper && layout == layoutDate {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// @Summary      List boost events
// @Description  Audit trail of boost commands. A date-only 'to' is inclusive of that whole day.
// @Tags         events
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-08-01)
// @Param        to    query   string  false  "End of range, same formats"  example(2026-08-31)
// @Param        type  query   string  false  "Event type"  Enums(BOOST_ON,BOOST_OFF)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /events [get]
// @Security     BearerAuth
func (h *Handler) getEvents(c *gin.Context) {
	var (
		f   = service.LogFilter{Type: strings.TrimSpace(c.Query("type"))}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs, false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs, true); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load events", "events_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
