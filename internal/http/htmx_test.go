package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "TRUE")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))
}

func TestHTMXResponse_Redirect(t *testing.T) {
	rec := httptest.NewRecorder()
	HTMX(rec).Redirect("/login")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
}

func TestHTMXResponse_PushURL(t *testing.T) {
	rec := httptest.NewRecorder()
	HTMX(rec).PushURL("/dashboard")

	assert.Equal(t, "/dashboard", rec.Header().Get("Hx-Push-Url"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
