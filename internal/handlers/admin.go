package handlers

import (
	"net/http"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/auth"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the snapshot/reset triggers. The work itself runs as
// procedures inside the database.
type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Snapshot godoc
// @Summary      Append current progress to the activity log
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]int
// @Failure      502  {object}  map[string]string
// @Router       /admin/snapshot [post]
func (h *AdminHandler) Snapshot(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	n, err := h.svc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": n})
}

// Reset godoc
// @Summary      Expire stale blessings and clear daily fields
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]int
// @Failure      502  {object}  map[string]string
// @Router       /admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	n, err := h.svc.Reset(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "rows": n})
}
