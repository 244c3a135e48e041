package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	domainrange "bookify/internal/domain/shared/daterange"
	"bookify/internal/domain/shared/money"
	domainuser "bookify/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Overlapping(ctx context.Context, apartmentID domainapartment.ID, duration domainrange.DateRange) (bool, error) {
	filter := bson.M{
		"apartment_id": string(apartmentID),
		"status":       bson.M{"$in": []string{string(domainbooking.StatusReserved), string(domainbooking.StatusConfirmed)}},
		"range.start":  bson.M{"$lt": duration.End.UnixMilli()},
		"range.end":    bson.M{"$gt": duration.Start.UnixMilli()},
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type bookingDocument struct {
	ID                string        `bson:"_id"`
	ApartmentID       string        `bson:"apartment_id"`
	UserID            string        `bson:"user_id"`
	Range             rangeDocument `bson:"range"`
	PriceForPeriod    moneyDocument `bson:"price_for_period"`
	CleaningFee       moneyDocument `bson:"cleaning_fee"`
	AmenitiesUpCharge moneyDocument `bson:"amenities_up_charge"`
	TotalPrice        moneyDocument `bson:"total_price"`
	Status            string        `bson:"status"`
	CreatedOn         int64         `bson:"created_on"`
	ConfirmedOn       *int64        `bson:"confirmed_on,omitempty"`
	RejectedOn        *int64        `bson:"rejected_on,omitempty"`
	CompletedOn       *int64        `bson:"completed_on,omitempty"`
	CancelledOn       *int64        `bson:"cancelled_on,omitempty"`
	Version           int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:                string(b.ID),
		ApartmentID:       string(b.ApartmentID),
		UserID:            string(b.UserID),
		Range:             rangeDocument{Start: b.Duration.Start.UnixMilli(), End: b.Duration.End.UnixMilli()},
		PriceForPeriod:    newMoneyDocument(b.PriceForPeriod),
		CleaningFee:       newMoneyDocument(b.CleaningFee),
		AmenitiesUpCharge: newMoneyDocument(b.AmenitiesUpCharge),
		TotalPrice:        newMoneyDocument(b.TotalPrice),
		Status:            string(b.Status),
		CreatedOn:         b.CreatedOn.UnixMilli(),
		ConfirmedOn:       timestampFromTime(b.ConfirmedOn),
		RejectedOn:        timestampFromTime(b.RejectedOn),
		CompletedOn:       timestampFromTime(b.CompletedOn),
		CancelledOn:       timestampFromTime(b.CancelledOn),
		Version:           b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	dr, err := domainrange.New(timestampToTime(d.Range.Start), timestampToTime(d.Range.End))
	if err != nil {
		return nil, err
	}
	priceForPeriod, err := d.PriceForPeriod.toMoney()
	if err != nil {
		return nil, err
	}
	cleaningFee, err := d.CleaningFee.toMoney()
	if err != nil {
		return nil, err
	}
	upCharge, err := d.AmenitiesUpCharge.toMoney()
	if err != nil {
		return nil, err
	}
	total, err := d.TotalPrice.toMoney()
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:                domainbooking.ID(d.ID),
		ApartmentID:       domainapartment.ID(d.ApartmentID),
		UserID:            domainuser.ID(d.UserID),
		Duration:          dr,
		PriceForPeriod:    priceForPeriod,
		CleaningFee:       cleaningFee,
		AmenitiesUpCharge: upCharge,
		TotalPrice:        total,
		Status:            domainbooking.Status(d.Status),
		CreatedOn:         timestampToTime(d.CreatedOn),
		ConfirmedOn:       timestampToTimePtr(d.ConfirmedOn),
		RejectedOn:        timestampToTimePtr(d.RejectedOn),
		CompletedOn:       timestampToTimePtr(d.CompletedOn),
		CancelledOn:       timestampToTimePtr(d.CancelledOn),
		Version:           d.Version,
	}, nil
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency.Code()}
}

func (d moneyDocument) toMoney() (money.Money, error) {
	if d.Currency == "" {
		return money.Money{Amount: d.Amount}, nil
	}
	currency, err := money.FromCode(d.Currency)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(d.Amount, currency), nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timestampToTimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := timestampToTime(*ms)
	return &t
}

func timestampFromTime(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
