package domain

import (
	"strconv"
	"strings"
	"time"
)

type BookingType string

const (
	BookingTypeEvent  BookingType = "Event"
	BookingTypeVendor BookingType = "Vendor"
)

type BookingStatus string

const (
	BookingCart      BookingStatus = "cart"
	BookingConfirmed BookingStatus = "confirmed"
)

// Default display names used when a cart item carries no catalog
// reference to resolve a real name from.
const (
	DefaultEventTitle  = "Untitled Event"
	DefaultVendorTitle = "Untitled Vendor"
)

// LocalIDPrefix marks client-generated identifiers for cart items that
// have never been persisted.
const LocalIDPrefix = "local-"

// Booking. Exactly one of EventID/VendorID is set, selected by Type;
// construction goes through BookingTarget so that invariant holds by
// the time a row is written.
type Booking struct {
	ID        int64         `json:"id"`
	Type      BookingType   `json:"bookingType"`
	EventID   *int64        `json:"event,omitempty"`
	VendorID  *int64        `json:"vendor,omitempty"`
	UserID    *int64        `json:"userId,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Title     string        `json:"title"`
	Img       string        `json:"img,omitempty"`
	Guests    *int          `json:"guests,omitempty"`
	Date      *time.Time    `json:"date,omitempty"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BookingTarget is the tagged variant behind the bookingType
// discriminator: Event(eventID, guests) or Vendor(vendorID, date).
// The zero value is invalid; use EventTarget or VendorTarget.
type BookingTarget struct {
	typ      BookingType
	eventID  int64
	guests   int
	vendorID int64
	date     time.Time
}

func EventTarget(eventID int64, guests int) (BookingTarget, error) {
	if guests <= 0 {
		return BookingTarget{}, NewError(KindValidation, "guests must be a positive number")
	}
	return BookingTarget{typ: BookingTypeEvent, eventID: eventID, guests: guests}, nil
}

func VendorTarget(vendorID int64, date time.Time, now time.Time) (BookingTarget, error) {
	if date.IsZero() {
		return BookingTarget{}, NewError(KindValidation, "booking date is required")
	}
	if !date.After(now) {
		return BookingTarget{}, NewError(KindValidation, "booking date must be in the future")
	}
	return BookingTarget{typ: BookingTypeVendor, vendorID: vendorID, date: date}, nil
}

func (t BookingTarget) Type() BookingType { return t.typ }

func (t BookingTarget) EventRef() (eventID int64, guests int, ok bool) {
	if t.typ != BookingTypeEvent {
		return 0, 0, false
	}
	return t.eventID, t.guests, true
}

func (t BookingTarget) VendorRef() (vendorID int64, date time.Time, ok bool) {
	if t.typ != BookingTypeVendor {
		return 0, time.Time{}, false
	}
	return t.vendorID, t.date, true
}

// NewBooking assembles an unpersisted Booking from a validated target.
func NewBooking(target BookingTarget, name, email, title, img string, status BookingStatus, userID *int64) *Booking {
	b := &Booking{
		Type:   target.typ,
		UserID: userID,
		Name:   name,
		Email:  email,
		Title:  title,
		Img:    img,
		Status: status,
	}
	switch target.typ {
	case BookingTypeEvent:
		id, guests := target.eventID, target.guests
		b.EventID = &id
		b.Guests = &guests
	case BookingTypeVendor:
		id, date := target.vendorID, target.date
		b.VendorID = &id
		b.Date = &date
	}
	return b
}

// IsOwner reports whether the given identity owns this booking. Rows
// created before the owner registered carry only an email.
func (b *Booking) IsOwner(userID int64, email string) bool {
	if b.UserID != nil && *b.UserID == userID {
		return true
	}
	return strings.EqualFold(b.Email, email)
}

// CartItem is one client-side selection submitted for confirmation.
// The ID is either the decimal id of a persisted booking or a
// local-only placeholder.
type CartItem struct {
	ID         string     `json:"_id,omitempty"`
	Event      string     `json:"event,omitempty"`
	Vendor     string     `json:"vendor,omitempty"`
	EventName  string     `json:"eventName,omitempty"`
	VendorName string     `json:"vendorName,omitempty"`
	Img        string     `json:"img,omitempty"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email,omitempty"`
	Guests     int        `json:"guests,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// IsNew reports whether the item has never been persisted.
func (c *CartItem) IsNew() bool {
	return c.ID == "" || strings.HasPrefix(c.ID, LocalIDPrefix)
}

// PersistedID parses the item id as a stored booking id.
func (c *CartItem) PersistedID() (int64, error) {
	id, err := strconv.ParseInt(c.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, Validationf("invalid booking id: %q", c.ID)
	}
	return id, nil
}

type ConfirmBookingRequest struct {
	BookedEvents  []CartItem `json:"bookedEvents"`
	BookedVendors []CartItem `json:"bookedVendors"`
}

type SavedBookings struct {
	SavedEvents  []Booking `json:"savedEvents"`
	SavedVendors []Booking `json:"savedVendors"`
}

type ConfirmBookingResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Bookings  SavedBookings `json:"bookings"`
	EmailSent bool          `json:"emailSent"`
}

// BookEventRequest is the single-item shortcut for events.
type BookEventRequest struct {
	EventTitle string `json:"eventTitle"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Guests     int    `json:"guests"`
}

func (r *BookEventRequest) Validate() error {
	if r.EventTitle == "" || r.Name == "" || r.Email == "" || r.Guests == 0 {
		return NewError(KindValidation, "please provide all required fields: eventTitle, name, email, and guests")
	}
	if !IsValidEmail(r.Email) {
		return NewError(KindValidation, "please provide a valid email address")
	}
	return nil
}

// BookVendorRequest is the single-item shortcut for vendors.
type BookVendorRequest struct {
	VendorName string    `json:"vendorName"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Date       time.Time `json:"date"`
}

func (r *BookVendorRequest) Validate(now time.Time) error {
	if r.VendorName == "" || r.Name == "" || r.Email == "" || r.Date.IsZero() {
		return NewError(KindValidation, "all fields are required: vendorName, name, email, and date")
	}
	if !IsValidEmail(r.Email) {
		return NewError(KindValidation, "please provide a valid email address")
	}
	if !r.Date.After(now) {
		return NewError(KindValidation, "please provide a valid date in the future")
	}
	return nil
}

// BookingPatch updates owner-editable fields.
type BookingPatch struct {
	Name   *string    `json:"name,omitempty"`
	Email  *string    `json:"email,omitempty"`
	Guests *int       `json:"guests,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

// Validate checks a patch against the booking it will be applied to.
func (p *BookingPatch) Validate(b *Booking, now time.Time) error {
	if p.Email != nil && !IsValidEmail(*p.Email) {
		return NewError(KindValidation, "please provide a valid email address")
	}
	if p.Guests != nil {
		if b.Type != BookingTypeEvent {
			return NewError(KindValidation, "guests only applies to event bookings")
		}
		if *p.Guests <= 0 {
			return NewError(KindValidation, "guests must be a positive number")
		}
	}
	if p.Date != nil {
		if b.Type != BookingTypeVendor {
			return NewError(KindValidation, "date only applies to vendor bookings")
		}
		if !p.Date.After(now) {
			return NewError(KindValidation, "booking date must be in the future")
		}
	}
	return nil
}
