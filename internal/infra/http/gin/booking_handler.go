package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/commands"
	bookingapp "staycal/internal/app/handlers/booking"
	"staycal/internal/domain/calendar"
)

type BookingHandler struct {
	Commands commands.Bus
}

type bookingRequestBody struct {
	From        string `json:"from" binding:"required,calendardate"`
	To          string `json:"to" binding:"required,calendardate"`
	Guests      int    `json:"guests" binding:"required,gt=0"`
	GuestName   string `json:"guest_name" binding:"required"`
	ContactInfo string `json:"contact_info" binding:"required"`
	Message     string `json:"message"`
}

// Request accepts a visitor's booking enquiry for a property and forwards it
// to the notification pipeline. It does not block the calendar.
func (h BookingHandler) Request(c *gin.Context) {
	var req bookingRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	from, err := calendar.ParseDate(req.From)
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		respondError(c, err)
		return
	}

	cmd := bookingapp.RequestBookingCommand{
		PropertyID:  c.Param("id"),
		From:        from,
		To:          to,
		Guests:      req.Guests,
		GuestName:   req.GuestName,
		ContactInfo: req.ContactInfo,
		Message:     req.Message,
	}
	receipt, err := commands.Dispatch[bookingapp.RequestBookingCommand, bookingapp.Receipt](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, receipt)
}
