package domain

import (
	"strings"
	"time"
)

// Event is a bookable offering in the catalog.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Img         string    `json:"img"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Vendor is a bookable service provider, structurally a sibling of Event.
type Vendor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Img         string    `json:"img"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Img         string `json:"img"`
}

type VendorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Img         string `json:"img"`
}

func (r *EventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *EventRequest) Validate() error {
	if r.Title == "" {
		return NewError(KindValidation, "event title is required")
	}
	return nil
}

func (r *VendorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *VendorRequest) Validate() error {
	if r.Name == "" {
		return NewError(KindValidation, "vendor name is required")
	}
	return nil
}
