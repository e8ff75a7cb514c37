package handlers

import (
	"errors"
	"net/http"
	"strings"

	"reclaim_control/internal/models"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// BoostResponse documents the body of every boost endpoint.
type BoostResponse struct {
	InitialStatus string `json:"initial_status" example:"OFF"`
	FinalStatus   string `json:"final_status" example:"ON"`
	Detail        string `json:"detail" example:"Turned ON boost."`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current device state
// @Description  Requests a fresh reading from the heat pump. 204 when the device does not answer in time.
// @Tags         state
// @Produce      json
// @Success      200  {object}  models.DeviceSnapshot
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrStateUnavailable) {
			c.Status(http.StatusNoContent)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load state", "state_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Turn boost on
// @Description  Refuses when boost is already on, the heat pump is running or the tank is too hot.
// @Tags         boost
// @Produce      json
// @Success      200  {object}  BoostResponse
// @Failure      409  {object}  BoostResponse
// @Failure      500  {object}  BoostResponse
// @Router       /boost/on [post]
func (h *Handler) boostOn(c *gin.Context) {
	h.writeBoostResult(c, h.services.Boost.Toggle(c.Request.Context(), models.TargetOn))
}

// @Summary      Turn boost off
// @Tags         boost
// @Produce      json
// @Success      200  {object}  BoostResponse
// @Failure      409  {object}  BoostResponse
// @Failure      500  {object}  BoostResponse
// @Router       /boost/off [post]
func (h *Handler) boostOff(c *gin.Context) {
	h.writeBoostResult(c, h.services.Boost.Toggle(c.Request.Context(), models.TargetOff))
}

// @Summary      Toggle boost away from an expected state
// @Tags         boost
// @Produce      json
// @Param        from  query  string  true  "Expected current status"  Enums(ON,OFF)
// @Success      200  {object}  BoostResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  BoostResponse
// @Failure      500  {object}  BoostResponse
// @Router       /boost/toggle [post]
func (h *Handler) boostToggle(c *gin.Context) {
	from := models.BoostStatus(strings.ToUpper(strings.TrimSpace(c.Query("from"))))
	if from == "" {
		from = models.BoostUnknown
	}
	res, err := h.services.Boost.ToggleFrom(c.Request.Context(), from)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be ON or OFF"})
		return
	}
	h.writeBoostResult(c, res)
}

func (h *Handler) writeBoostResult(c *gin.Context, res models.BoostCommandResult) {
	code := res.StatusCode
	if code == 0 {
		code = http.StatusInternalServerError
	}
	c.JSON(code, res)
}
