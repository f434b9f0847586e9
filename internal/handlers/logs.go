package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/auth"
	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/dto"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	svc *service.LogService
}

func NewLogHandler(svc *service.LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

// List godoc
// @Summary      List activity log entries in a date range
// @Tags         logs
// @Produce      json
// @Security     CookieAuth
// @Param        from  query     string  false  "Start date (YYYY-MM-DD), inclusive"
// @Param        to    query     string  false  "End date (YYYY-MM-DD), inclusive"
// @Success      200   {object}  dto.LogsResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	r, ok := parseRange(c)
	if !ok {
		return
	}
	entries, err := h.svc.Fetch(c.Request.Context(), userID, r)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	resp := dto.LogsResponse{
		Columns: h.svc.OrderColumns(entries),
		Rows:    make([]dto.LogRowResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Rows[i] = dto.LogRowResponse{LoggedAt: e.LoggedAt, Details: e.Details}
	}
	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary      Download the filtered activity log as CSV
// @Tags         logs
// @Produce      text/csv
// @Security     CookieAuth
// @Param        from  query  string  false  "Start date (YYYY-MM-DD), inclusive"
// @Param        to    query  string  false  "End date (YYYY-MM-DD), inclusive"
// @Success      200  {string}  string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /logs/export [get]
func (h *LogHandler) Export(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	r, ok := parseRange(c)
	if !ok {
		return
	}
	// Buffer the whole document first: a failed export must not leave a
	// partial attachment on the wire.
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), userID, r, &buf); err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("activity-log-%s.csv", time.Now().UTC().Format("20060102T150405Z"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func parseRange(c *gin.Context) (dom.DateRange, bool) {
	var from, to dto.Day
	if err := from.Parse(c.Query("from")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from: " + err.Error()})
		return dom.DateRange{}, false
	}
	if err := to.Parse(c.Query("to")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to: " + err.Error()})
		return dom.DateRange{}, false
	}
	return dom.DateRange{From: from.Ptr(), To: to.Ptr()}, true
}
