package handlers

import (
	"errors"
	"net/http"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/auth"
	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/dto"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	svc *service.CharacterService
}

func NewCharacterHandler(svc *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{svc: svc}
}

// List godoc
// @Summary      List own characters
// @Tags         characters
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListCharactersResponse
// @Failure      500  {object}  map[string]string
// @Router       /characters [get]
func (h *CharacterHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListCharactersResponse{Items: charactersToResponses(list)})
}

// Create godoc
// @Summary      Create a character
// @Tags         characters
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateCharacterRequest  true  "Character"
// @Success      201   {object}  dto.CharacterResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /characters [post]
func (h *CharacterHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.Class)
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrCharacterExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, characterToResponse(ch))
}

func characterToResponse(c dom.Character) dto.CharacterResponse {
	return dto.CharacterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Class:     c.Class,
		CreatedAt: c.CreatedAt,
	}
}

func charactersToResponses(list []dom.Character) []dto.CharacterResponse {
	out := make([]dto.CharacterResponse, len(list))
	for i := range list {
		out[i] = characterToResponse(list[i])
	}
	return out
}
