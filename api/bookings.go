package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *slog.Logger
}

type createBookingRequest struct {
	EquipmentID string    `json:"equipmentId" binding:"required"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Purpose     string    `json:"purpose" binding:"max=500"`
	GuestName   string    `json:"guestName" binding:"max=100"`
	GuestEmail  string    `json:"guestEmail" binding:"omitempty,email"`
}

type reviewBookingRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes" binding:"max=500"`
}

type bookingResponse struct {
	ID              string    `json:"id"`
	EquipmentID     string    `json:"equipmentId"`
	EquipmentName   string    `json:"equipmentName,omitempty"`
	UserID          string    `json:"userId,omitempty"`
	UserName        string    `json:"userName,omitempty"`
	UserEmail       string    `json:"userEmail,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Purpose         string    `json:"purpose,omitempty"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		EquipmentID:     b.EquipmentID,
		EquipmentName:   b.EquipmentName,
		UserID:          b.UserID,
		UserName:        b.UserName,
		UserEmail:       b.UserEmail,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Purpose:         b.Purpose,
		Status:          string(b.Status),
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
	}
}

// publicBookingResponse drops the requester's contact details for the
// anonymous calendar view.
func publicBookingResponse(b *domain.Booking) bookingResponse {
	resp := newBookingResponse(b)
	resp.UserID = ""
	resp.UserEmail = ""
	resp.RejectionReason = ""
	return resp
}

func NewBookingHandler(service booking.BookingUseCase, log *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

// Register expects Authenticate to run on the parent group.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", RequireAuth(), h.get)
	router.PATCH("/:id", RequireRole(domain.RoleAdmin), h.review)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := booking.CreateBookingInput{
		EquipmentID: req.EquipmentID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Purpose:     req.Purpose,
	}
	if v := viewerFrom(c); !v.Anonymous() {
		input.UserID = v.UserID
	} else {
		input.GuestName = req.GuestName
		input.GuestEmail = req.GuestEmail
	}

	b, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(b))
}

func (h *BookingHandler) list(c *gin.Context) {
	query := booking.ListQuery{
		Public: strings.EqualFold(c.Query("public"), "true"),
		Status: c.Query("status"),
		UserID: c.Query("userId"),
		Viewer: viewerFrom(c),
	}

	list, err := h.service.ListBookings(c.Request.Context(), query)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]bookingResponse, 0, len(list))
	for i := range list {
		if query.Public {
			resp = append(resp, publicBookingResponse(&list[i]))
		} else {
			resp = append(resp, newBookingResponse(&list[i]))
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h *BookingHandler) review(c *gin.Context) {
	var req reviewBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	b, err := h.service.ReviewBooking(c.Request.Context(), c.Param("id"), booking.ReviewInput{
		Status: domain.BookingStatus(strings.ToUpper(req.Status)),
		Note:   req.AdminNotes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}
