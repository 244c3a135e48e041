package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainapartment "bookify/internal/domain/apartment"
)

type ApartmentRepository struct {
	col *mongo.Collection
}

func NewApartmentRepository(db *mongo.Database) *ApartmentRepository {
	return &ApartmentRepository{col: db.Collection("agg_apartment")}
}

func (r *ApartmentRepository) ByID(ctx context.Context, id domainapartment.ID) (*domainapartment.Apartment, error) {
	var doc apartmentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainapartment.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *ApartmentRepository) Save(ctx context.Context, a *domainapartment.Apartment) error {
	doc := newApartmentDocument(a)
	filter := bson.M{"_id": doc.ID, "version": a.Version}
	doc.Version = a.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	a.Version = doc.Version
	return nil
}

type apartmentDocument struct {
	ID           string          `bson:"_id"`
	Name         string          `bson:"name"`
	Description  string          `bson:"description"`
	Address      addressDocument `bson:"address"`
	Price        moneyDocument   `bson:"price"`
	CleaningFee  moneyDocument   `bson:"cleaning_fee"`
	Amenities    []string        `bson:"amenities"`
	LastBookedOn *int64          `bson:"last_booked_on,omitempty"`
	Version      int64           `bson:"version"`
}

type addressDocument struct {
	Country string `bson:"country"`
	State   string `bson:"state"`
	ZipCode string `bson:"zip_code"`
	City    string `bson:"city"`
	Street  string `bson:"street"`
}

func newApartmentDocument(a *domainapartment.Apartment) apartmentDocument {
	amenities := make([]string, 0, len(a.Amenities))
	for _, am := range a.Amenities {
		amenities = append(amenities, string(am))
	}
	return apartmentDocument{
		ID:          string(a.ID),
		Name:        string(a.Name),
		Description: string(a.Description),
		Address: addressDocument{
			Country: a.Address.Country,
			State:   a.Address.State,
			ZipCode: a.Address.ZipCode,
			City:    a.Address.City,
			Street:  a.Address.Street,
		},
		Price:        newMoneyDocument(a.Price),
		CleaningFee:  newMoneyDocument(a.CleaningFee),
		Amenities:    amenities,
		LastBookedOn: timestampFromTime(a.LastBookedOn),
		Version:      a.Version,
	}
}

func (d apartmentDocument) toAggregate() (*domainapartment.Apartment, error) {
	price, err := d.Price.toMoney()
	if err != nil {
		return nil, err
	}
	cleaningFee, err := d.CleaningFee.toMoney()
	if err != nil {
		return nil, err
	}
	amenities := make([]domainapartment.Amenity, 0, len(d.Amenities))
	for _, am := range d.Amenities {
		amenities = append(amenities, domainapartment.Amenity(am))
	}
	return &domainapartment.Apartment{
		ID:          domainapartment.ID(d.ID),
		Name:        domainapartment.Name(d.Name),
		Description: domainapartment.Description(d.Description),
		Address: domainapartment.Address{
			Country: d.Address.Country,
			State:   d.Address.State,
			ZipCode: d.Address.ZipCode,
			City:    d.Address.City,
			Street:  d.Address.Street,
		},
		Price:        price,
		CleaningFee:  cleaningFee,
		Amenities:    amenities,
		LastBookedOn: timestampToTimePtr(d.LastBookedOn),
		Version:      d.Version,
	}, nil
}

var _ domainapartment.Repository = (*ApartmentRepository)(nil)
