package dto

import (
	"time"

	"staycal/internal/domain/property"
)

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Price struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type Property struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     Address `json:"address"`
	Prices      []Price `json:"prices"`
	MaxPeople   int     `json:"max_people"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func MapProperty(p *property.Property) Property {
	if p == nil {
		return Property{}
	}
	prices := make([]Price, 0, len(p.Prices))
	for _, pr := range p.Prices {
		prices = append(prices, Price{AmountCents: pr.AmountCents, Currency: pr.Currency})
	}
	return Property{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Address: Address{
			Line1:   p.Address.Line1,
			Line2:   p.Address.Line2,
			City:    p.Address.City,
			Country: p.Address.Country,
		},
		Prices:    prices,
		MaxPeople: p.MaxPeople,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func MapProperties(props []*property.Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		out = append(out, MapProperty(p))
	}
	return out
}
