package models

import (
	"time"

	"github.com/paulmach/orb"
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Point converts the coordinate to an orb point (lng, lat order).
func (p GeoPoint) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Address is a delivery address of a customer.
type Address struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Location   *GeoPoint `json:"location,omitempty" validate:"omitempty"`
	ID         string    `json:"id" validate:"required"`
	Department string    `json:"department" validate:"required,max=64"`
	Commune    string    `json:"commune" validate:"required,max=64"`
	Ward       string    `json:"ward,omitempty" validate:"max=64"`     // arrondissement
	District   string    `json:"district,omitempty" validate:"max=64"` // quartier
	Label      string    `json:"label,omitempty" validate:"max=128"`
	Version    int64     `json:"version"`
	IsActive   bool      `json:"is_active"`
}

func (a *Address) RecordID() string     { return a.ID }
func (a *Address) RecordVersion() int64 { return a.Version }
func (a *Address) Active() bool         { return a.IsActive }

func (a *Address) SetActive(active bool, at time.Time) {
	a.IsActive = active
	a.UpdatedAt = at
}

func (a *Address) Stamp(at time.Time) {
	a.CreatedAt = at
	a.UpdatedAt = at
}

func (a *Address) Touch(at time.Time) { a.UpdatedAt = at }

// AddressInput carries the user-supplied fields of a new address.
type AddressInput struct {
	Location   *GeoPoint `json:"location,omitempty"`
	Department string    `json:"department"`
	Commune    string    `json:"commune"`
	Ward       string    `json:"ward,omitempty"`
	District   string    `json:"district,omitempty"`
	Label      string    `json:"label,omitempty"`
}

// NewAddress builds an active address with the given id.
func NewAddress(id string, in AddressInput) *Address {
	return &Address{
		ID:         id,
		Department: in.Department,
		Commune:    in.Commune,
		Ward:       in.Ward,
		District:   in.District,
		Label:      in.Label,
		Location:   in.Location,
		IsActive:   true,
	}
}

// AddressPatch is a partial update of an address. Nil fields are left untouched.
type AddressPatch struct {
	Department *string   `json:"department,omitempty"`
	Commune    *string   `json:"commune,omitempty"`
	Ward       *string   `json:"ward,omitempty"`
	District   *string   `json:"district,omitempty"`
	Label      *string   `json:"label,omitempty"`
	Location   *GeoPoint `json:"location,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p AddressPatch) IsEmpty() bool {
	return p.Department == nil && p.Commune == nil && p.Ward == nil &&
		p.District == nil && p.Label == nil && p.Location == nil
}

// Apply merges the patch into a.
func (p AddressPatch) Apply(a *Address) {
	if p.Department != nil {
		a.Department = *p.Department
	}
	if p.Commune != nil {
		a.Commune = *p.Commune
	}
	if p.Ward != nil {
		a.Ward = *p.Ward
	}
	if p.District != nil {
		a.District = *p.District
	}
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.Location != nil {
		loc := *p.Location
		a.Location = &loc
	}
}
