package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

// PropertyRepository persists property documents with the availability
// sub-document embedded; there is no separate availability collection.
type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: find property: %w", err)
	}
	return doc.toAggregate()
}

func (r *PropertyRepository) All(ctx context.Context) ([]*domainproperty.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode properties: %w", err)
	}
	out := make([]*domainproperty.Property, 0, len(docs))
	for _, doc := range docs {
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, nil
}

// Save writes conditionally on the aggregate version. A concurrent writer
// that advanced the version first makes this call fail with
// property.ErrConcurrentUpdate instead of silently losing its change.
func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainproperty.ErrConcurrentUpdate
		}
		return fmt.Errorf("mongo: save property: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainproperty.ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperty.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("mongo: delete property: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainproperty.ErrNotFound
	}
	return nil
}

type propertyDocument struct {
	ID           string               `bson:"_id"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description,omitempty"`
	Address      addressDocument      `bson:"address"`
	Prices       []priceDocument      `bson:"prices"`
	MaxPeople    int                  `bson:"max_people"`
	Active       bool                 `bson:"active"`
	Availability availabilityDocument `bson:"availability"`
	CreatedAt    int64                `bson:"created_at"`
	UpdatedAt    int64                `bson:"updated_at"`
	Version      int64                `bson:"version"`
}

type addressDocument struct {
	Line1   string `bson:"line1"`
	Line2   string `bson:"line2,omitempty"`
	City    string `bson:"city"`
	Country string `bson:"country"`
}

type priceDocument struct {
	AmountCents int64  `bson:"amount_cents"`
	Currency    string `bson:"currency"`
}

type availabilityDocument struct {
	BlockedDates    []rangeDocument          `bson:"blocked_dates"`
	UnavailableDays []unavailableDayDocument `bson:"unavailable_days"`
}

// Dates are stored as YYYY-MM-DD strings; the calendar type guarantees no
// time-of-day leaks into comparisons.
type rangeDocument struct {
	From string `bson:"from"`
	To   string `bson:"to"`
}

type unavailableDayDocument struct {
	Date        string `bson:"date"`
	Reason      string `bson:"reason"`
	Description string `bson:"description,omitempty"`
	BookingID   string `bson:"booking_id,omitempty"`
	GuestName   string `bson:"booking_guest_name,omitempty"`
	ContactInfo string `bson:"booking_contact_info,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
	CreatedBy   string `bson:"created_by,omitempty"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	prices := make([]priceDocument, 0, len(p.Prices))
	for _, pr := range p.Prices {
		prices = append(prices, priceDocument{AmountCents: pr.AmountCents, Currency: pr.Currency})
	}
	blocked := make([]rangeDocument, 0, len(p.Availability.BlockedDates))
	for _, r := range p.Availability.BlockedDates {
		blocked = append(blocked, rangeDocument{From: r.From.String(), To: r.To.String()})
	}
	days := make([]unavailableDayDocument, 0, len(p.Availability.UnavailableDays))
	for _, day := range p.Availability.UnavailableDays {
		doc := unavailableDayDocument{
			Date:        day.Date.String(),
			Reason:      string(day.Reason),
			Description: day.Description,
			CreatedAt:   day.CreatedAt.UnixMilli(),
			CreatedBy:   day.CreatedBy,
		}
		if day.Booking != nil {
			doc.BookingID = day.Booking.BookingID
			doc.GuestName = day.Booking.GuestName
			doc.ContactInfo = day.Booking.ContactInfo
		}
		days = append(days, doc)
	}
	return propertyDocument{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Address: addressDocument{
			Line1:   p.Address.Line1,
			Line2:   p.Address.Line2,
			City:    p.Address.City,
			Country: p.Address.Country,
		},
		Prices:       prices,
		MaxPeople:    p.MaxPeople,
		Active:       p.Active,
		Availability: availabilityDocument{BlockedDates: blocked, UnavailableDays: days},
		CreatedAt:    p.CreatedAt.UnixMilli(),
		UpdatedAt:    p.UpdatedAt.UnixMilli(),
		Version:      p.Version,
	}
}

func (d propertyDocument) toAggregate() (*domainproperty.Property, error) {
	prices := make([]domainproperty.Price, 0, len(d.Prices))
	for _, pr := range d.Prices {
		prices = append(prices, domainproperty.Price{AmountCents: pr.AmountCents, Currency: pr.Currency})
	}
	record := domainavailability.Availability{}
	for _, r := range d.Availability.BlockedDates {
		from, err := calendar.ParseDate(r.From)
		if err != nil {
			return nil, err
		}
		to, err := calendar.ParseDate(r.To)
		if err != nil {
			return nil, err
		}
		record.BlockedDates = append(record.BlockedDates, calendar.DateRange{From: from, To: to})
	}
	for _, day := range d.Availability.UnavailableDays {
		date, err := calendar.ParseDate(day.Date)
		if err != nil {
			return nil, err
		}
		entry := domainavailability.UnavailableDay{
			Date:        date,
			Reason:      domainavailability.Reason(day.Reason),
			Description: day.Description,
			CreatedAt:   timestampToTime(day.CreatedAt),
			CreatedBy:   day.CreatedBy,
		}
		if day.BookingID != "" || day.GuestName != "" || day.ContactInfo != "" {
			entry.Booking = &domainavailability.BookingInfo{
				BookingID:   day.BookingID,
				GuestName:   day.GuestName,
				ContactInfo: day.ContactInfo,
			}
		}
		record.UnavailableDays = append(record.UnavailableDays, entry)
	}

	return &domainproperty.Property{
		ID:          domainproperty.ID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Address: domainproperty.Address{
			Line1:   d.Address.Line1,
			Line2:   d.Address.Line2,
			City:    d.Address.City,
			Country: d.Address.Country,
		},
		Prices:       prices,
		MaxPeople:    d.MaxPeople,
		Active:       d.Active,
		Availability: record,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
