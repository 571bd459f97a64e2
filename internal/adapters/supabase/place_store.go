package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

var _ ports.PlaceRepository = (*PlaceStore)(nil)

// PlaceStore implements ports.PlaceRepository on a PostgREST table. Requests
// carry the principal's access token so row-level security applies; the
// user_id filter is sent explicitly as well.
type PlaceStore struct {
	client *Client
	table  string
}

// NewPlaceStore builds a PlaceStore for table (default "places").
func NewPlaceStore(client *Client, table string) *PlaceStore {
	if strings.TrimSpace(table) == "" {
		table = "places"
	}
	return &PlaceStore{client: client, table: table}
}

// placeRow mirrors a row of the places table. IDs may be uuid strings or
// bigint identities depending on how the table was created.
type placeRow struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Lat       float64         `json:"lat"`
	Lng       float64         `json:"lng"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r placeRow) toModel() *model.Place {
	id := string(bytes.TrimSpace(r.ID))
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		id = s
	}
	return &model.Place{
		ID:        id,
		Name:      r.Name,
		Lat:       r.Lat,
		Lng:       r.Lng,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

// ListByOwner returns the principal's places, newest first.
func (s *PlaceStore) ListByOwner(ctx context.Context, principal domainauth.Principal) ([]*model.Place, error) {
	if principal.UserID == "" {
		return nil, apperrors.Validation("Falta el identificador de usuario.")
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+principal.UserID)
	q.Set("order", "created_at.desc")

	res, err := s.client.call(ctx, request{
		op:     "places_list",
		method: http.MethodGet,
		path:   "/rest/v1/" + s.table,
		query:  q,
		bearer: principal.AccessToken,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "No se pudieron cargar los lugares.")
	}
	if !res.ok() {
		return nil, storageError(res, "No se pudieron cargar los lugares.")
	}

	var rows []placeRow
	if err := res.decode(&rows); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "No se pudieron cargar los lugares.")
	}
	places := make([]*model.Place, 0, len(rows))
	for _, r := range rows {
		places = append(places, r.toModel())
	}
	return places, nil
}

type insertRow struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	UserID string  `json:"user_id"`
}

// Create inserts a place and returns the stored row.
func (s *PlaceStore) Create(ctx context.Context, principal domainauth.Principal, req model.CreatePlaceRequest) (*model.Place, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	if req.UserID != principal.UserID {
		return nil, apperrors.Wrap(model.ErrOwnerMismatch, apperrors.ErrCodeUnauthorized, model.ErrOwnerMismatch.Error())
	}

	res, err := s.client.call(ctx, request{
		op:      "places_insert",
		method:  http.MethodPost,
		path:    "/rest/v1/" + s.table,
		body:    []insertRow{{Name: req.Name, Lat: req.Lat, Lng: req.Lng, UserID: req.UserID}},
		bearer:  principal.AccessToken,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "No se pudo guardar el lugar.")
	}
	if !res.ok() {
		return nil, storageError(res, "No se pudo guardar el lugar.")
	}

	var rows []placeRow
	if err := res.decode(&rows); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "No se pudo guardar el lugar.")
	}
	if len(rows) == 0 {
		return nil, apperrors.Storage("No se pudo guardar el lugar.")
	}
	return rows[0].toModel(), nil
}

// storageError surfaces PostgREST's own message (e.g. a row-level-security
// violation or an expired JWT) as a storage error.
func storageError(res response, fallback string) error {
	msg := res.errorMessage()
	if msg == "" {
		msg = fallback
	}
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeStorage,
		Message: msg,
		Status:  res.status,
		Cause:   fmt.Errorf("postgrest status %d", res.status),
	}
}
