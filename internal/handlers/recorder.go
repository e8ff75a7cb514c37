package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"reclaim_control/internal/models"
	"reclaim_control/internal/service"

	"github.com/gin-gonic/gin"
)

// maxLoggingInterval bounds :interval before it is converted to a time.Duration.
const maxLoggingInterval = 24 * time.Hour

// @Summary      Start history logging
// @Description  Records the device state every :interval seconds.
// @Tags         logging
// @Produce      json
// @Param        interval  path  number  true  "Seconds between samples, 1 to 86400"
// @Success      200  {object}  service.RecorderStatus
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /logging/start/{interval} [post]
// @Security     BearerAuth
func (h *Handler) startLogging(c *gin.Context) {
	secs, err := strconv.ParseFloat(c.Param("interval"), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be a positive number of seconds"})
		return
	}
	if secs > maxLoggingInterval.Seconds() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be at most " + maxLoggingInterval.String()})
		return
	}
	if err := h.services.Recorder.Start(time.Duration(secs * float64(time.Second))); err != nil {
		h.recorderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.services.Recorder.Status())
}

// @Summary      Stop history logging
// @Tags         logging
// @Produce      json
// @Success      200  {object}  service.RecorderStatus
// @Failure      409  {object}  map[string]string
// @Router       /logging/stop [post]
// @Security     BearerAuth
func (h *Handler) stopLogging(c *gin.Context) {
	if err := h.services.Recorder.Stop(); err != nil {
		h.recorderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.services.Recorder.Status())
}

// @Summary      History logging status
// @Tags         logging
// @Produce      json
// @Success      200  {object}  service.RecorderStatus
// @Router       /logging/status [get]
// @Security     BearerAuth
func (h *Handler) loggingStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Recorder.Status())
}

func (h *Handler) recorderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRecorderRunning), errors.Is(err, service.ErrRecorderStopped):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "recorder request failed", "recorder_request_failed", err)
	}
}
