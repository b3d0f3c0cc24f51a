package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	availabilityapp "staycal/internal/app/handlers/availability"
	propertiesapp "staycal/internal/app/handlers/properties"
	"staycal/internal/app/queries"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h PropertyHandler) List(c *gin.Context) {
	result, err := queries.Ask[propertiesapp.ListQuery, []dto.Property](c.Request.Context(), h.Queries, propertiesapp.ListQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	query := propertiesapp.GetQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertiesapp.GetQuery, dto.Property](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search lists the properties free across the whole requested range with
// capacity for ?people= guests.
func (h PropertyHandler) Search(c *gin.Context) {
	from, to, err := parseWindow(c)
	if err != nil {
		respondError(c, err)
		return
	}
	people := 0
	if raw := c.Query("people"); raw != "" {
		people, err = strconv.Atoi(raw)
		if err != nil || people < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid people parameter"})
			return
		}
	}
	query := availabilityapp.SearchAvailableQuery{From: from, To: to, People: people}
	result, err := queries.Ask[availabilityapp.SearchAvailableQuery, []dto.Property](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type propertyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     struct {
		Line1   string `json:"line1"`
		Line2   string `json:"line2"`
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"address"`
	Prices []struct {
		AmountCents int64  `json:"amount_cents" binding:"required"`
		Currency    string `json:"currency" binding:"required"`
	} `json:"prices" binding:"omitempty,dive"`
	MaxPeople    int  `json:"max_people" binding:"required,gt=0"`
	Active       bool `json:"active"`
	BlockedDates []struct {
		From string `json:"from" binding:"required,calendardate"`
		To   string `json:"to" binding:"required,calendardate"`
	} `json:"blockedDates" binding:"omitempty,dive"`
}

func (r propertyRequest) payload() (propertiesapp.Payload, error) {
	payload := propertiesapp.Payload{
		Name:        r.Name,
		Description: r.Description,
		Address: domainproperty.Address{
			Line1:   r.Address.Line1,
			Line2:   r.Address.Line2,
			City:    r.Address.City,
			Country: r.Address.Country,
		},
		MaxPeople: r.MaxPeople,
		Active:    r.Active,
	}
	for _, p := range r.Prices {
		payload.Prices = append(payload.Prices, domainproperty.Price{AmountCents: p.AmountCents, Currency: p.Currency})
	}
	for _, b := range r.BlockedDates {
		from, err := calendar.ParseDate(b.From)
		if err != nil {
			return propertiesapp.Payload{}, err
		}
		to, err := calendar.ParseDate(b.To)
		if err != nil {
			return propertiesapp.Payload{}, err
		}
		blocked, err := calendar.NewRange(from, to)
		if err != nil {
			return propertiesapp.Payload{}, err
		}
		payload.BlockedDates = append(payload.BlockedDates, blocked)
	}
	return payload, nil
}

func (h PropertyHandler) Create(c *gin.Context) {
	if _, ok := requireEditor(c); !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := commands.Dispatch[propertiesapp.CreateCommand, dto.Property](c.Request.Context(), h.Commands, propertiesapp.CreateCommand{Payload: payload})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Update(c *gin.Context) {
	if _, ok := requireEditor(c); !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := propertiesapp.UpdateCommand{PropertyID: c.Param("id"), Payload: payload}
	result, err := commands.Dispatch[propertiesapp.UpdateCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Delete(c *gin.Context) {
	if _, ok := requireEditor(c); !ok {
		return
	}
	cmd := propertiesapp.DeleteCommand{PropertyID: c.Param("id")}
	result, err := commands.Dispatch[propertiesapp.DeleteCommand, propertiesapp.DeleteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
