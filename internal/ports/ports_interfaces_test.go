package ports_test

import (
	"testing"

	"github.com/target/placesmap/internal/mocks"
	mockauth "github.com/target/placesmap/internal/mocks/auth"
	"github.com/target/placesmap/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mockauth.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mockauth.MemorySessionStore)(nil)
	var _ ports.TokenVerifier = mockauth.StaticTokenVerifier{}
	var _ ports.PlaceRepository = (*mocks.MockPlaceRepository)(nil)
	var _ ports.Geocoder = (*mocks.MockGeocoder)(nil)
	var _ ports.Router = (*mocks.MockRouter)(nil)
	var _ ports.GeocodeCache = (*mocks.MockGeocodeCache)(nil)
}
