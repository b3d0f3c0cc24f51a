package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	availabilityapp "staycal/internal/app/handlers/availability"
	"staycal/internal/app/queries"
	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Get returns one property's full scheduling record.
func (h AvailabilityHandler) Get(c *gin.Context) {
	query := availabilityapp.GetRecordQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[availabilityapp.GetRecordQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type mutateDaysRequest struct {
	Date               string   `json:"date" binding:"omitempty,calendardate"`
	Dates              []string `json:"dates" binding:"omitempty,dive,calendardate"`
	Reason             string   `json:"reason" binding:"required"`
	Description        string   `json:"description"`
	BookingID          string   `json:"bookingId"`
	BookingGuestName   string   `json:"bookingGuestName"`
	BookingContactInfo string   `json:"bookingContactInfo"`
}

func (r mutateDaysRequest) bookingInfo() *domainavailability.BookingInfo {
	if r.BookingID == "" && r.BookingGuestName == "" && r.BookingContactInfo == "" {
		return nil
	}
	return &domainavailability.BookingInfo{
		BookingID:   r.BookingID,
		GuestName:   r.BookingGuestName,
		ContactInfo: r.BookingContactInfo,
	}
}

// AddDays inserts or replaces unavailable-day entries. The body carries a
// single date or a batch; reason is validated before anything touches
// storage.
func (h AvailabilityHandler) AddDays(c *gin.Context) {
	identity, ok := requireEditor(c)
	if !ok {
		return
	}
	var req mutateDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	reason, err := domainavailability.ParseReason(req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	dates, err := collectDates(req.Date, req.Dates)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(dates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date or dates required"})
		return
	}

	cmd := availabilityapp.AddDaysCommand{
		PropertyID:  c.Param("id"),
		Dates:       dates,
		Reason:      reason,
		Description: req.Description,
		Booking:     req.bookingInfo(),
		ActorID:     identity.UserID,
	}
	inserted, err := commands.Dispatch[availabilityapp.AddDaysCommand, []dto.UnavailableDay](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"unavailableDays": inserted})
}

// UpdateDay edits reason and metadata of the entry for a date. The date is
// identity; absent entries are 404.
func (h AvailabilityHandler) UpdateDay(c *gin.Context) {
	if _, ok := requireEditor(c); !ok {
		return
	}
	var req mutateDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	reason, err := domainavailability.ParseReason(req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	cmd := availabilityapp.UpdateDayCommand{
		PropertyID:  c.Param("id"),
		Date:        date,
		Reason:      reason,
		Description: req.Description,
		Booking:     req.bookingInfo(),
	}
	updated, err := commands.Dispatch[availabilityapp.UpdateDayCommand, dto.UnavailableDay](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RemoveDays deletes entries named by ?date= or ?dates=csv.
func (h AvailabilityHandler) RemoveDays(c *gin.Context) {
	if _, ok := requireEditor(c); !ok {
		return
	}
	var raw []string
	if single := c.Query("date"); single != "" {
		raw = append(raw, single)
	}
	if csv := c.Query("dates"); csv != "" {
		raw = append(raw, strings.Split(csv, ",")...)
	}
	dates, err := collectDates("", raw)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(dates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date or dates required"})
		return
	}

	cmd := availabilityapp.RemoveDaysCommand{PropertyID: c.Param("id"), Dates: dates}
	result, err := commands.Dispatch[availabilityapp.RemoveDaysCommand, availabilityapp.RemoveDaysResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar serves the shared aggregate view for [from, to].
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	from, to, err := parseWindow(c)
	if err != nil {
		respondError(c, err)
		return
	}
	query := availabilityapp.CalendarIndexQuery{From: from, To: to}
	result, err := queries.Ask[availabilityapp.CalendarIndexQuery, dto.CalendarIndex](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DayMap serves the per-day available-property-ID sets the client cache
// merges.
func (h AvailabilityHandler) DayMap(c *gin.Context) {
	from, to, err := parseWindow(c)
	if err != nil {
		respondError(c, err)
		return
	}
	query := availabilityapp.AvailabilityMapQuery{From: from, To: to}
	result, err := queries.Ask[availabilityapp.AvailabilityMapQuery, dto.AvailabilityMap](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseWindow(c *gin.Context) (calendar.Date, calendar.Date, error) {
	from, err := calendar.ParseDate(c.Query("from"))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	to, err := calendar.ParseDate(c.Query("to"))
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	if to.Before(from) {
		return calendar.Date{}, calendar.Date{}, calendar.ErrInvalidRange
	}
	return from, to, nil
}

func collectDates(single string, many []string) ([]calendar.Date, error) {
	seen := make(map[calendar.Date]struct{})
	var out []calendar.Date
	add := func(raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return err
		}
		if _, dup := seen[date]; dup {
			return nil
		}
		seen[date] = struct{}{}
		out = append(out, date)
		return nil
	}
	if err := add(single); err != nil {
		return nil, err
	}
	for _, raw := range many {
		if err := add(raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}
