package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/service/equipment"
	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	service equipment.EquipmentUseCase
	log     *slog.Logger
}

type createEquipmentRequest struct {
	ID          string `json:"id" binding:"max=64"`
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"max=200"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Status      string `json:"status"`
}

type updateEquipmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Location    *string `json:"location" binding:"omitempty,max=200"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Status      *string `json:"status"`
}

type equipmentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	Color            string    `json:"color"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"isActive"`
	CanAccept        bool      `json:"canAccept"`
	RequiresApproval bool      `json:"requiresApproval"`
	UpcomingApproved int       `json:"upcomingApproved"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func newEquipmentResponse(e *domain.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Location:         e.Location,
		Color:            e.Color,
		Status:           string(e.Status),
		IsActive:         e.IsActive,
		CanAccept:        e.IsActive && availability.CanAccept(e.Status),
		RequiresApproval: availability.RequiresAdminApproval(e.Status),
		UpcomingApproved: e.UpcomingApproved,
		UpdatedAt:        e.UpdatedAt,
	}
}

func NewEquipmentHandler(service equipment.EquipmentUseCase, log *slog.Logger) *EquipmentHandler {
	return &EquipmentHandler{service: service, log: log}
}

func (h *EquipmentHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)

	admin := router.Group("", RequireRole(domain.RoleAdmin))
	admin.POST("", h.create)
	admin.PATCH("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

// list returns active equipment; admins may pass all=true to include
// retired items.
func (h *EquipmentHandler) list(c *gin.Context) {
	includeInactive := strings.EqualFold(c.Query("all"), "true") && viewerFrom(c).IsAdmin()

	list, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]equipmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newEquipmentResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EquipmentHandler) get(c *gin.Context) {
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newEquipmentResponse(e))
}

func (h *EquipmentHandler) create(c *gin.Context) {
	var req createEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	e, err := h.service.Create(c.Request.Context(), equipment.CreateInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Color:       req.Color,
		Status:      domain.EquipmentStatus(strings.ToUpper(req.Status)),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newEquipmentResponse(e))
}

func (h *EquipmentHandler) update(c *gin.Context) {
	var req updateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	patch := domain.EquipmentPatch{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Color:       req.Color,
	}
	if req.Status != nil {
		status := domain.EquipmentStatus(strings.ToUpper(*req.Status))
		patch.Status = &status
	}

	e, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newEquipmentResponse(e))
}

func (h *EquipmentHandler) delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id"), "bookingsRemoved": removed})
}
