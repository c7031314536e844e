package entity

import (
	"strings"
	"time"
)

type ListingType string

const (
	ListingRental  ListingType = "RENTAL"
	ListingSale    ListingType = "SALE"
	ListingService ListingType = "SERVICE"
	ListingEvent   ListingType = "EVENT"
	ListingTicket  ListingType = "TICKET"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingRental, ListingSale, ListingService, ListingEvent, ListingTicket:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingActive  ListingStatus = "ACTIVE"
	ListingPending ListingStatus = "PENDING"
	ListingSold    ListingStatus = "SOLD"
	ListingRented  ListingStatus = "RENTED"
	ListingExpired ListingStatus = "EXPIRED"
	ListingDraft   ListingStatus = "DRAFT"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingPending, ListingSold, ListingRented, ListingExpired, ListingDraft:
		return true
	}
	return false
}

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// Media is an ordered attachment on a listing, post or story.
type Media struct {
	Type      MediaType `json:"type" firestore:"type"`
	URL       string    `json:"url" firestore:"url"`
	Thumbnail string    `json:"thumbnail,omitempty" firestore:"thumbnail,omitempty"`
	Order     int       `json:"order" firestore:"order"`
}

type Listing struct {
	ID          string      `json:"id" firestore:"id"`
	OwnerID     string      `json:"owner_id" firestore:"ownerId"`
	Type        ListingType `json:"type" firestore:"type"`
	Category    string      `json:"category,omitempty" firestore:"category,omitempty"`
	Title       string      `json:"title" firestore:"title"`
	Description string      `json:"description,omitempty" firestore:"description,omitempty"`
	Price       float64     `json:"price" firestore:"price"`
	Currency    string      `json:"currency" firestore:"currency"`
	Location    string      `json:"location" firestore:"location"`
	// Stored lower-cased so location filtering can run without case folding at read time.
	LocationKey string        `json:"-" firestore:"locationKey"`
	Features    []string      `json:"features" firestore:"features"`
	Media       []Media       `json:"media" firestore:"media"`
	Status      ListingStatus `json:"status" firestore:"status"`

	// Property
	PropertyType string  `json:"property_type,omitempty" firestore:"propertyType,omitempty"`
	Bedrooms     int     `json:"bedrooms,omitempty" firestore:"bedrooms,omitempty"`
	Bathrooms    int     `json:"bathrooms,omitempty" firestore:"bathrooms,omitempty"`
	Area         float64 `json:"area,omitempty" firestore:"area,omitempty"`
	Furnished    bool    `json:"furnished" firestore:"furnished"`

	// Service
	ServiceType     string `json:"service_type,omitempty" firestore:"serviceType,omitempty"`
	Availability    string `json:"availability,omitempty" firestore:"availability,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty" firestore:"durationMinutes,omitempty"`

	// Event
	EventDate *time.Time `json:"event_date,omitempty" firestore:"eventDate,omitempty"`
	Venue     string     `json:"venue,omitempty" firestore:"venue,omitempty"`
	Capacity  int        `json:"capacity,omitempty" firestore:"capacity,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ListingFilter has one field per supported filter dimension. Zero values mean "no filter".
type ListingFilter struct {
	Type         ListingType
	Category     string
	Status       ListingStatus
	OwnerID      string
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  int
	MinBathrooms int
	Furnished    *bool
}

// Matches reports whether l satisfies every set dimension of f.
func (f ListingFilter) Matches(l *Listing) bool {
	switch {
	case f.Type != "" && l.Type != f.Type,
		f.Category != "" && l.Category != f.Category,
		f.Status != "" && l.Status != f.Status,
		f.OwnerID != "" && l.OwnerID != f.OwnerID,
		f.MinPrice != nil && l.Price < *f.MinPrice,
		f.MaxPrice != nil && l.Price > *f.MaxPrice,
		f.MinBedrooms > 0 && l.Bedrooms < f.MinBedrooms,
		f.MinBathrooms > 0 && l.Bathrooms < f.MinBathrooms,
		f.Furnished != nil && l.Furnished != *f.Furnished:
		return false
	}
	return f.Location == "" || strings.Contains(strings.ToLower(l.Location), strings.ToLower(f.Location))
}

// EqualityOnly reports whether every set dimension can be answered by an
// equality match in the store.
func (f ListingFilter) EqualityOnly() bool {
	return f.Location == "" && f.MinPrice == nil && f.MaxPrice == nil && f.MinBedrooms == 0 && f.MinBathrooms == 0
}
