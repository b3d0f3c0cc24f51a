package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "staycal/internal/app/handlers/booking"
	usersapp "staycal/internal/app/handlers/users"
	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
	domainuser "staycal/internal/domain/user"
)

// respondError maps domain errors onto the HTTP taxonomy: validation 400,
// absent resources 404, write races and duplicates 409, everything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidRange),
		errors.Is(err, domainavailability.ErrInvalidReason),
		errors.Is(err, domainavailability.ErrBookingInfoMisused),
		errors.Is(err, domainproperty.ErrNameRequired),
		errors.Is(err, domainproperty.ErrBadCapacity),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, usersapp.ErrPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainproperty.ErrNotFound),
		errors.Is(err, domainavailability.ErrDayNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrRangeUnavailable),
		errors.Is(err, domainproperty.ErrConcurrentUpdate),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
