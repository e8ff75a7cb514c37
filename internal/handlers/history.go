package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"reclaim_control/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errBadStart      = "start_ms must be an integer"
	errBadEnd        = "end_ms must be an integer"
	errBadSampleRate = "sample_rate must be a non-negative integer"
)

// parseRange reads the :start_ms and :end_ms path params.
func parseRange(c *gin.Context) (int64, int64, string) {
	start, err := strconv.ParseInt(c.Param("start_ms"), 10, 64)
	if err != nil {
		return 0, 0, errBadStart
	}
	end, err := strconv.ParseInt(c.Param("end_ms"), 10, 64)
	if err != nil {
		return 0, 0, errBadEnd
	}
	return start, end, ""
}

// historyError maps history failures to status codes.
func (h *Handler) historyError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrHistoryUnavailable):
		h.logAndJSONError(c, http.StatusServiceUnavailable, "history store unavailable", logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "history request failed", logKey, err, kv...)
	}
}

// @Summary      Query history
// @Description  Returns recorded snapshots in [start_ms, end_ms] as columns. sample_rate=N keeps rows whose id is a multiple of N.
// @Tags         history
// @Produce      json
// @Param        start_ms     path   int  true   "Range start, unix ms"
// @Param        end_ms       path   int  true   "Range end, unix ms"
// @Param        sample_rate  query  int  false  "Keep every Nth row"
// @Success      200  {object}  map[string][]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /history/{start_ms}/{end_ms} [get]
func (h *Handler) getHistory(c *gin.Context) {
	start, end, msg := parseRange(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	var rate int64
	if s := c.Query("sample_rate"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadSampleRate})
			return
		}
		rate = v
	}

	cols, err := h.services.History.Query(c.Request.Context(), models.HistoryQuery{StartMs: start, EndMs: end, SampleRate: rate})
	if err != nil {
		h.historyError(c, "history_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

// @Summary      List tables
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Failure      503  {object}  map[string]string
// @Router       /tables [get]
// @Security     BearerAuth
func (h *Handler) getTables(c *gin.Context) {
	tables, err := h.services.History.Tables(c.Request.Context())
	if err != nil {
		h.historyError(c, "history_tables_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

// @Summary      Insert a test history row
// @Tags         admin
// @Produce      json
// @Success      201  {object}  models.HistoryRow
// @Failure      503  {object}  map[string]string
// @Router       /test_data/add [post]
// @Security     BearerAuth
func (h *Handler) addTestData(c *gin.Context) {
	row, err := h.services.History.AddTestData(c.Request.Context())
	if err != nil {
		h.historyError(c, "history_add_test_data_failed", err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// @Summary      Delete history rows
// @Tags         admin
// @Produce      json
// @Param        start_ms  path  int  true  "Range start, unix ms"
// @Param        end_ms    path  int  true  "Range end, unix ms"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /test_data/delete/{start_ms}/{end_ms} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTestData(c *gin.Context) {
	start, end, msg := parseRange(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	n, err := h.services.History.DeleteRange(c.Request.Context(), start, end)
	if err != nil {
		h.historyError(c, "history_delete_failed", err, "start_ms", start, "end_ms", end)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
