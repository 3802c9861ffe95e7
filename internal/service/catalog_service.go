package service

import (
	"context"
	"time"

	"github.com/weddingwise/weddingwise-bookings/internal/cache"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/repo/postgres"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

// CatalogService manages the bookable events and vendors. Listings go
// through the redis cache when one is configured; mutations invalidate.
type CatalogService struct {
	catalog  postgres.CatalogRepository
	bookings postgres.BookingRepository
	cache    *cache.CatalogCache
	now      func() time.Time
}

func NewCatalogService(catalog postgres.CatalogRepository, bookings postgres.BookingRepository, c *cache.CatalogCache) *CatalogService {
	return &CatalogService{
		catalog:  catalog,
		bookings: bookings,
		cache:    c,
		now:      time.Now,
	}
}

func (s *CatalogService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if events, ok := s.cache.GetEvents(ctx); ok {
			return events, nil
		}
	}

	events, err := s.catalog.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

func (s *CatalogService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.catalog.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.NotFoundf("event not found")
	}
	return event, nil
}

func (s *CatalogService) CreateEvent(ctx context.Context, req *domain.EventRequest) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.catalog.CreateEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidateEvents(ctx)
	logger.InfoContext(ctx, "Event created", "event_id", event.ID, "title", event.Title)
	return event, nil
}

func (s *CatalogService) UpdateEvent(ctx context.Context, id int64, req *domain.EventRequest) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.catalog.UpdateEvent(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.NotFoundf("event not found")
	}

	s.invalidateEvents(ctx)
	return event, nil
}

func (s *CatalogService) DeleteEvent(ctx context.Context, id int64) error {
	deleted, err := s.catalog.DeleteEvent(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("event not found")
	}

	s.invalidateEvents(ctx)
	logger.InfoContext(ctx, "Event deleted", "event_id", id)
	return nil
}

func (s *CatalogService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	if s.cache != nil {
		if vendors, ok := s.cache.GetVendors(ctx); ok {
			return vendors, nil
		}
	}

	vendors, err := s.catalog.ListVendors(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetVendors(ctx, vendors)
	}
	return vendors, nil
}

func (s *CatalogService) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	vendor, err := s.catalog.GetVendorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.NotFoundf("vendor not found")
	}
	return vendor, nil
}

func (s *CatalogService) CreateVendor(ctx context.Context, req *domain.VendorRequest) (*domain.Vendor, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vendor, err := s.catalog.CreateVendor(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidateVendors(ctx)
	logger.InfoContext(ctx, "Vendor created", "vendor_id", vendor.ID, "name", vendor.Name)
	return vendor, nil
}

func (s *CatalogService) UpdateVendor(ctx context.Context, id int64, req *domain.VendorRequest) (*domain.Vendor, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vendor, err := s.catalog.UpdateVendor(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.NotFoundf("vendor not found")
	}

	s.invalidateVendors(ctx)
	return vendor, nil
}

func (s *CatalogService) DeleteVendor(ctx context.Context, id int64) error {
	deleted, err := s.catalog.DeleteVendor(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("vendor not found")
	}

	s.invalidateVendors(ctx)
	logger.InfoContext(ctx, "Vendor deleted", "vendor_id", id)
	return nil
}

// BookEvent is the single-item shortcut: resolve the event by title and
// drop a cart booking for it.
func (s *CatalogService) BookEvent(ctx context.Context, req *domain.BookEventRequest, userID *int64) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.catalog.GetEventByTitle(ctx, req.EventTitle)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.NotFoundf("event not found: %s", req.EventTitle)
	}

	target, err := domain.EventTarget(event.ID, req.Guests)
	if err != nil {
		return nil, err
	}

	booking := domain.NewBooking(target, req.Name, req.Email, event.Title, event.Img, domain.BookingCart, userID)
	saved, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Event booked", "booking_id", saved.ID, "event_id", event.ID)
	return saved, nil
}

// BookVendor is the single-item shortcut for vendors.
func (s *CatalogService) BookVendor(ctx context.Context, req *domain.BookVendorRequest, userID *int64) (*domain.Booking, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	vendor, err := s.catalog.GetVendorByName(ctx, req.VendorName)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.NotFoundf("vendor not found: %s", req.VendorName)
	}

	target, err := domain.VendorTarget(vendor.ID, req.Date, s.now())
	if err != nil {
		return nil, err
	}

	booking := domain.NewBooking(target, req.Name, req.Email, vendor.Name, vendor.Img, domain.BookingCart, userID)
	saved, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Vendor booked", "booking_id", saved.ID, "vendor_id", vendor.ID)
	return saved, nil
}

func (s *CatalogService) invalidateEvents(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateEvents(ctx)
	}
}

func (s *CatalogService) invalidateVendors(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateVendors(ctx)
	}
}
