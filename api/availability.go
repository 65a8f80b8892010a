package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	service booking.BookingUseCase
	loc     *time.Location
	log     *slog.Logger
}

type dayResponse struct {
	Date     string `json:"date"`
	Bookable bool   `json:"bookable"`
	Reason   string `json:"reason,omitempty"`
}

type slotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Free  bool      `json:"free"`
}

type equipmentDayResponse struct {
	EquipmentID      string         `json:"equipmentId"`
	Date             string         `json:"date"`
	BookableDay      bool           `json:"bookableDay"`
	CanAccept        bool           `json:"canAccept"`
	RequiresApproval bool           `json:"requiresApproval"`
	Slots            []slotResponse `json:"slots"`
}

// NewAvailabilityHandler parses YYYY-MM-DD query dates in loc, the facility
// timezone.
func NewAvailabilityHandler(service booking.BookingUseCase, loc *time.Location, log *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, loc: loc, log: log}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/days", h.days)
	router.GET("/equipment/:id", h.equipmentDay)
}

func (h *AvailabilityHandler) days(c *gin.Context) {
	from, err := time.ParseInLocation(time.DateOnly, c.Query("from"), h.loc)
	if err != nil {
		badRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation(time.DateOnly, c.Query("to"), h.loc)
	if err != nil {
		badRequest(c, "to must be YYYY-MM-DD")
		return
	}

	days, err := h.service.Calendar(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]dayResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, dayResponse{Date: d.Date.Format(time.DateOnly), Bookable: d.Bookable, Reason: d.Reason})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) equipmentDay(c *gin.Context) {
	date, err := time.ParseInLocation(time.DateOnly, c.Query("date"), h.loc)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	day, err := h.service.EquipmentDay(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	slots := make([]slotResponse, 0, len(day.Slots))
	for _, s := range day.Slots {
		slots = append(slots, slotResponse{Start: s.Start, End: s.End, Free: s.Free})
	}
	c.JSON(http.StatusOK, equipmentDayResponse{
		EquipmentID:      day.Equipment.ID,
		Date:             day.Date.Format(time.DateOnly),
		BookableDay:      day.BookableDay,
		CanAccept:        day.CanAccept,
		RequiresApproval: day.RequiresApproval,
		Slots:            slots,
	})
}
