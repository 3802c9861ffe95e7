package service

import (
	"context"
	"strconv"
	"time"

	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/internal/mailer"
	"github.com/weddingwise/weddingwise-bookings/internal/repo/postgres"
	"github.com/weddingwise/weddingwise-bookings/pkg/events"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

// Requester is the authenticated identity a booking operation runs as.
type Requester struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

func (r Requester) IsAdmin() bool { return r.Role == domain.RoleAdmin }

// BookingService owns the booking lifecycle, including the cart
// confirmation workflow.
type BookingService struct {
	bookings  postgres.BookingRepository
	catalog   postgres.CatalogRepository
	mailer    mailer.Service
	publisher events.Publisher
	now       func() time.Time
}

func NewBookingService(
	bookings postgres.BookingRepository,
	catalog postgres.CatalogRepository,
	m mailer.Service,
	publisher events.Publisher,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		catalog:   catalog,
		mailer:    m,
		publisher: publisher,
		now:       time.Now,
	}
}

// ConfirmBookings persists every cart item in the request and sends one
// confirmation email covering all of them. Items are processed
// sequentially in input order; a failing item aborts the batch, but
// rows already written stay written. An email failure degrades the
// response rather than failing it: the bookings are already persisted.
func (s *BookingService) ConfirmBookings(ctx context.Context, req *domain.ConfirmBookingRequest, who Requester) (*domain.ConfirmBookingResponse, error) {
	if len(req.BookedEvents) == 0 && len(req.BookedVendors) == 0 {
		return nil, domain.NewError(domain.KindValidation, "no bookings to confirm")
	}

	saved := domain.SavedBookings{
		SavedEvents:  []domain.Booking{},
		SavedVendors: []domain.Booking{},
	}

	for i := range req.BookedEvents {
		b, err := s.saveCartItem(ctx, &req.BookedEvents[i], domain.BookingTypeEvent, who)
		if err != nil {
			return nil, err
		}
		saved.SavedEvents = append(saved.SavedEvents, *b)
	}

	for i := range req.BookedVendors {
		b, err := s.saveCartItem(ctx, &req.BookedVendors[i], domain.BookingTypeVendor, who)
		if err != nil {
			return nil, err
		}
		saved.SavedVendors = append(saved.SavedVendors, *b)
	}

	emailSent := true
	if err := s.mailer.SendBookingConfirmation(who.Email, who.Name, saved.SavedEvents, saved.SavedVendors); err != nil {
		logger.ErrorContext(ctx, "Failed to send confirmation email",
			"user_id", who.UserID, "error", err)
		emailSent = false
	}

	if err := s.publisher.Publish(ctx, events.BookingConfirmed, events.BookingConfirmedEvent{
		UserEmail:   who.Email,
		EventCount:  len(saved.SavedEvents),
		VendorCount: len(saved.SavedVendors),
		EmailSent:   emailSent,
		ConfirmedAt: s.now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking confirmed event", "error", err)
	}

	message := "Your bookings have been confirmed! A confirmation email is on its way."
	if !emailSent {
		message = "Your bookings have been confirmed, but we could not send the confirmation email."
	}

	logger.InfoContext(ctx, "Bookings confirmed",
		"user_id", who.UserID,
		"events", len(saved.SavedEvents),
		"vendors", len(saved.SavedVendors),
		"email_sent", emailSent)

	return &domain.ConfirmBookingResponse{
		Success:   true,
		Message:   message,
		Bookings:  saved,
		EmailSent: emailSent,
	}, nil
}

// saveCartItem turns one cart candidate into a confirmed row. New items
// are created; items carrying a persisted id are fetched and, if still
// in the cart, moved to confirmed.
func (s *BookingService) saveCartItem(ctx context.Context, item *domain.CartItem, typ domain.BookingType, who Requester) (*domain.Booking, error) {
	if item.IsNew() {
		return s.createFromCartItem(ctx, item, typ, who)
	}

	id, err := item.PersistedID()
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("booking not found: %s", item.ID)
	}
	if !who.IsAdmin() && !existing.IsOwner(who.UserID, who.Email) {
		// Not found rather than forbidden so booking ids are not probeable.
		return nil, domain.NotFoundf("booking not found: %s", item.ID)
	}

	if existing.Status == domain.BookingConfirmed {
		return existing, nil
	}

	confirmed, err := s.bookings.UpdateStatus(ctx, id, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if confirmed == nil {
		return nil, domain.NotFoundf("booking not found: %s", item.ID)
	}
	return confirmed, nil
}

func (s *BookingService) createFromCartItem(ctx context.Context, item *domain.CartItem, typ domain.BookingType, who Requester) (*domain.Booking, error) {
	name := item.Name
	if name == "" {
		name = who.Name
	}
	email := item.Email
	if email == "" {
		email = who.Email
	}
	userID := who.UserID

	var (
		target domain.BookingTarget
		refID  int64
		title  string
		img    = item.Img
		err    error
	)

	switch typ {
	case domain.BookingTypeEvent:
		title = item.EventName
		if item.Event != "" {
			refID, err = strconv.ParseInt(item.Event, 10, 64)
			if err != nil {
				return nil, domain.Validationf("invalid event reference: %q", item.Event)
			}
			event, err := s.catalog.GetEventByID(ctx, refID)
			if err != nil {
				return nil, err
			}
			if event == nil {
				return nil, domain.NotFoundf("event not found: %s", item.Event)
			}
			if title == "" {
				title = event.Title
			}
			if img == "" {
				img = event.Img
			}
		}
		if title == "" {
			title = domain.DefaultEventTitle
		}
		target, err = domain.EventTarget(refID, item.Guests)
		if err != nil {
			return nil, err
		}

	case domain.BookingTypeVendor:
		title = item.VendorName
		if item.Vendor != "" {
			refID, err = strconv.ParseInt(item.Vendor, 10, 64)
			if err != nil {
				return nil, domain.Validationf("invalid vendor reference: %q", item.Vendor)
			}
			vendor, err := s.catalog.GetVendorByID(ctx, refID)
			if err != nil {
				return nil, err
			}
			if vendor == nil {
				return nil, domain.NotFoundf("vendor not found: %s", item.Vendor)
			}
			if title == "" {
				title = vendor.Name
			}
			if img == "" {
				img = vendor.Img
			}
		}
		if title == "" {
			title = domain.DefaultVendorTitle
		}
		if item.Date == nil {
			return nil, domain.NewError(domain.KindValidation, "booking date is required")
		}
		target, err = domain.VendorTarget(refID, *item.Date, s.now())
		if err != nil {
			return nil, err
		}

	default:
		return nil, domain.Validationf("unknown booking type: %s", typ)
	}

	booking := domain.NewBooking(target, name, email, title, img, domain.BookingConfirmed, &userID)
	if refID == 0 {
		// No catalog reference resolved; keep the foreign key empty.
		booking.EventID = nil
		booking.VendorID = nil
	}

	return s.bookings.Create(ctx, booking)
}

// ListBookings returns the requester's bookings, matching by user id
// and falling back to email for rows created before registration.
func (s *BookingService) ListBookings(ctx context.Context, who Requester) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByOwner(ctx, who.UserID, who.Email)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// GetBooking returns one booking. Non-owners get not found rather than
// forbidden so booking ids are not probeable.
func (s *BookingService) GetBooking(ctx context.Context, id int64, who Requester) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NotFoundf("booking not found")
	}
	if !who.IsAdmin() && !booking.IsOwner(who.UserID, who.Email) {
		return nil, domain.NotFoundf("booking not found")
	}
	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, id int64, patch domain.BookingPatch, who Requester) (*domain.Booking, error) {
	booking, err := s.GetBooking(ctx, id, who)
	if err != nil {
		return nil, err
	}

	if err := patch.Validate(booking, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.bookings.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("booking not found")
	}

	logger.InfoContext(ctx, "Booking updated", "booking_id", id, "user_id", who.UserID)
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64, who Requester) error {
	booking, err := s.GetBooking(ctx, id, who)
	if err != nil {
		return err
	}

	deleted, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("booking not found")
	}

	if err := s.publisher.Publish(ctx, events.BookingCanceled, events.BookingCanceledEvent{
		BookingID:  id,
		UserEmail:  booking.Email,
		CanceledAt: s.now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking canceled event", "error", err)
	}

	logger.InfoContext(ctx, "Booking deleted", "booking_id", id, "user_id", who.UserID)
	return nil
}
