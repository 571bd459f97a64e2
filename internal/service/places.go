package service

import (
	"context"
	"errors"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/observability/metrics"
	"github.com/target/placesmap/internal/ports"
)

// PlaceServiceOptions groups dependencies for PlaceService.
type PlaceServiceOptions struct {
	Repo    ports.PlaceRepository
	Metrics *metrics.Collector // Optional
}

// PlaceService reads and writes the signed-in user's places. The owner is
// always taken from the session, never from the request.
type PlaceService struct {
	repo    ports.PlaceRepository
	metrics *metrics.Collector
}

// NewPlaceService constructs a PlaceService.
func NewPlaceService(opts PlaceServiceOptions) *PlaceService {
	if opts.Repo == nil {
		panic("place service: repository is required")
	}
	return &PlaceService{repo: opts.Repo, metrics: opts.Metrics}
}

var errNoSession = errors.New("no session")

// List returns the session user's places, newest first.
func (s *PlaceService) List(ctx context.Context, sess *domainauth.Session) ([]*model.Place, error) {
	if sess == nil || sess.UserID == "" {
		return nil, apperrors.Wrap(errNoSession, apperrors.ErrCodeUnauthorized, "No autenticado")
	}
	return s.repo.ListByOwner(ctx, sess.Principal())
}

// Create stores a place named name at coord for the session user.
func (s *PlaceService) Create(ctx context.Context, sess *domainauth.Session, name string, coord model.LatLng) (*model.Place, error) {
	if sess == nil || sess.UserID == "" {
		return nil, apperrors.Wrap(errNoSession, apperrors.ErrCodeUnauthorized, "No autenticado")
	}
	place, err := s.repo.Create(ctx, sess.Principal(), model.CreatePlaceRequest{
		Name:   name,
		Lat:    coord.Lat,
		Lng:    coord.Lng,
		UserID: sess.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.PlaceCreated()
	return place, nil
}
