package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/auth"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/dto"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/service"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/tracker"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	svc *service.ProgressService
}

func NewProgressHandler(svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// Board godoc
// @Summary      Get the progress board for a day
// @Tags         progress
// @Produce      json
// @Security     CookieAuth
// @Param        date  query     string  false  "Day (YYYY-MM-DD), default today"
// @Success      200   {object}  dto.BoardResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /progress [get]
func (h *ProgressHandler) Board(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	day, ok := parseDay(c)
	if !ok {
		return
	}
	rows, err := h.svc.Board(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, boardToResponse(day, rows))
}

// Edit godoc
// @Summary      Apply an optimistic field edit to one character's row
// @Description  The edit is applied immediately and persisted in the background; a failed save reverts the field and shows up in the row's last_error on the next board read.
// @Tags         progress
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        characterID  path      int  true  "Character ID"
// @Param        body         body      dto.EditRequest  true  "Field edit"
// @Success      202  {object}  dto.RowResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /progress/{characterID} [patch]
func (h *ProgressHandler) Edit(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	characterID, ok := parseID(c, "characterID")
	if !ok {
		return
	}
	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day := req.Date.Or(today())
	row, _, err := h.svc.Edit(c.Request.Context(), userID, day, characterID, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, tracker.ErrUnknownCharacter) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		if errors.Is(err, tracker.ErrUnknownField) || errors.Is(err, tracker.ErrBadValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, rowToResponse(row, time.Now()))
}

func parseDay(c *gin.Context) (time.Time, bool) {
	var d dto.Day
	if err := d.Parse(c.Query("date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return d.Or(today()), true
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func boardToResponse(day time.Time, rows []tracker.Row) dto.BoardResponse {
	now := time.Now()
	out := dto.BoardResponse{
		Date: day.Format("2006-01-02"),
		Rows: make([]dto.RowResponse, len(rows)),
	}
	for i := range rows {
		out.Rows[i] = rowToResponse(rows[i], now)
	}
	return out
}

func rowToResponse(r tracker.Row, now time.Time) dto.RowResponse {
	fields := make(map[string]string, len(r.State.Fields))
	for k, v := range r.State.Fields {
		fields[string(k)] = v
	}
	return dto.RowResponse{
		CharacterID:     r.Character.ID,
		Name:            r.Character.Name,
		Class:           r.Character.Class,
		Fields:          fields,
		BlessingSince:   r.State.BlessingSince,
		BlessingExpired: r.State.BlessingExpired(now),
		Saving:          r.Saving,
		LastError:       r.LastError,
	}
}
