// Package mocks provides gomock implementations of the places and routing ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockPlaceRepository(ctrl)
//	repo.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(places, nil)
package mocks

// Generate mock for PlaceRepository interface from internal/ports package.
// This creates MockPlaceRepository with methods: ListByOwner, Create
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=place_repository_mock.go github.com/target/placesmap/internal/ports PlaceRepository

// Generate mocks for Geocoder, Router and GeocodeCache interfaces from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=routing_mock.go github.com/target/placesmap/internal/ports Geocoder,Router,GeocodeCache
