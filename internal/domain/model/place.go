//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPlaceNameLen is the longest place name, in characters, that can be saved.
const MaxPlaceNameLen = 255

// Place validation errors. Messages are shown to the user as-is.
var (
	ErrPlaceNameRequired = errors.New("el nombre del lugar es requerido")
	ErrPlaceNameTooLong  = fmt.Errorf("el nombre del lugar no puede superar los %d caracteres", MaxPlaceNameLen)
	ErrOwnerRequired     = errors.New("falta el propietario del lugar")
	ErrOwnerMismatch     = errors.New("no puedes guardar lugares de otro usuario")
	ErrLatOutOfRange     = errors.New("la latitud debe estar entre -90 y 90")
	ErrLngOutOfRange     = errors.New("la longitud debe estar entre -180 y 180")
)

// ValidatePlaceName checks a trimmed place name without touching the network.
func ValidatePlaceName(name string) error {
	if name == "" {
		return ErrPlaceNameRequired
	}
	if utf8.RuneCountInString(name) > MaxPlaceNameLen {
		return ErrPlaceNameTooLong
	}
	return nil
}

// Place is a named geographic point saved by a user. Places are immutable once created.
type Place struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Lat       float64   `json:"lat"        db:"lat"`
	Lng       float64   `json:"lng"        db:"lng"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LngLat returns the place's coordinates in provider (lng, lat) order.
func (p Place) LngLat() LngLat {
	return LngLat{p.Lng, p.Lat}
}

// CreatePlaceRequest represents parameters to insert a Place.
type CreatePlaceRequest struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	UserID string  `json:"user_id"`
}

// Validate validates CreatePlaceRequest and trims the name.
func (r *CreatePlaceRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := ValidatePlaceName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.UserID) == "" {
		return ErrOwnerRequired
	}
	return LatLng{Lat: r.Lat, Lng: r.Lng}.Validate()
}

// LatLng is a coordinate in map (lat, lng) order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports whether the coordinate lies within WGS84 bounds.
func (c LatLng) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return ErrLatOutOfRange
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return ErrLngOutOfRange
	}
	return nil
}

// LngLat is a coordinate in provider (lng, lat) order, serialized as a
// two-element JSON array.
type LngLat [2]float64

// Lng returns the longitude component.
func (c LngLat) Lng() float64 { return c[0] }

// Lat returns the latitude component.
func (c LngLat) Lat() float64 { return c[1] }

// LatLng re-projects the coordinate into map order.
func (c LngLat) LatLng() LatLng { return LatLng{Lat: c[1], Lng: c[0]} }
