package memory

import (
	"context"
	"strings"
	"sync"

	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	domainrange "bookify/internal/domain/shared/daterange"
	domainuser "bookify/internal/domain/user"
)

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return bk, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk.Version++
	r.items[bk.ID] = bk
	return nil
}

// Overlapping scans for a reserved or confirmed booking of the apartment
// sharing at least one night with the given range.
func (r *BookingRepository) Overlapping(ctx context.Context, apartmentID domainapartment.ID, duration domainrange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bk := range r.items {
		if bk.ApartmentID != apartmentID {
			continue
		}
		if bk.Status != domainbooking.StatusReserved && bk.Status != domainbooking.StatusConfirmed {
			continue
		}
		if bk.Duration.Overlaps(duration) {
			return true, nil
		}
	}
	return false, nil
}

// UserRepository stores users in memory, enforcing email uniqueness.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if usr, ok := r.byID[id]; ok {
		return usr, nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Add(ctx context.Context, usr *domainuser.User) error {
	emailKey := strings.ToLower(strings.TrimSpace(string(usr.Email)))
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != usr.ID {
		return domainuser.ErrEmailTaken
	}
	usr.Version++
	r.byEmail[emailKey] = usr.ID
	r.byID[usr.ID] = usr
	return nil
}

// ApartmentRepository is an in-memory apartment store.
type ApartmentRepository struct {
	mu    sync.RWMutex
	items map[domainapartment.ID]*domainapartment.Apartment
}

func NewApartmentRepository() *ApartmentRepository {
	return &ApartmentRepository{items: make(map[domainapartment.ID]*domainapartment.Apartment)}
}

func (r *ApartmentRepository) ByID(ctx context.Context, id domainapartment.ID) (*domainapartment.Apartment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apt, ok := r.items[id]
	if !ok {
		return nil, domainapartment.ErrNotFound
	}
	return apt, nil
}

func (r *ApartmentRepository) Save(ctx context.Context, apt *domainapartment.Apartment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt.Version++
	r.items[apt.ID] = apt
	return nil
}

var (
	_ domainbooking.Repository   = (*BookingRepository)(nil)
	_ domainuser.Repository      = (*UserRepository)(nil)
	_ domainapartment.Repository = (*ApartmentRepository)(nil)
)
