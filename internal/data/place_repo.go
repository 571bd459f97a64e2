package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/target/placesmap/internal/data/pgxutil"
	domainauth "github.com/target/placesmap/internal/domain/auth"
	"github.com/target/placesmap/internal/domain/model"
	apperrors "github.com/target/placesmap/internal/errors"
	"github.com/target/placesmap/internal/ports"
)

var _ ports.PlaceRepository = (*PlaceRepo)(nil)

const (
	placeColumns = `id::text AS id, name, lat, lng, user_id::text AS user_id, created_at`

	placeListByOwnerQuery = `SELECT ` + placeColumns + `
		FROM places
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	placeInsertQuery = `INSERT INTO places (id, name, lat, lng, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + placeColumns
)

// PlaceRepo stores places in PostgreSQL. Ownership is enforced by filtering
// on the principal's user id.
type PlaceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPlaceRepo creates a new PlaceRepo with real time provider.
func NewPlaceRepo(db *sql.DB) *PlaceRepo {
	return &PlaceRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPlaceRepoWithTimeProvider creates a PlaceRepo with a custom time provider (useful for tests).
func NewPlaceRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PlaceRepo {
	return &PlaceRepo{DB: db, timeProvider: tp}
}

// ListByOwner returns the principal's places, newest first.
func (r *PlaceRepo) ListByOwner(ctx context.Context, principal domainauth.Principal) ([]*model.Place, error) {
	if _, err := uuid.Parse(principal.UserID); err != nil {
		return nil, apperrors.ValidationField("user_id", "El identificador de usuario no es válido.")
	}

	var rowsOut []model.Place
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, placeListByOwnerQuery, principal.UserID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Place])
		return err
	}); err != nil {
		return nil, placeStoreError(err, "No se pudieron cargar los lugares.")
	}

	res := make([]*model.Place, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Create inserts a place owned by req.UserID.
func (r *PlaceRepo) Create(ctx context.Context, principal domainauth.Principal, req model.CreatePlaceRequest) (*model.Place, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	if req.UserID != principal.UserID {
		return nil, apperrors.Wrap(model.ErrOwnerMismatch, apperrors.ErrCodeUnauthorized, model.ErrOwnerMismatch.Error())
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return nil, apperrors.ValidationField("user_id", "El identificador de usuario no es válido.")
	}

	var out model.Place
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, placeInsertQuery,
			uuid.NewString(),
			req.Name,
			req.Lat,
			req.Lng,
			req.UserID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Place])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Storage("No se pudo guardar el lugar.")
		}
		return nil, placeStoreError(err, "No se pudo guardar el lugar.")
	}
	return &out, nil
}

// placeStoreError maps driver errors to AppErrors; failures that are not
// PostgreSQL errors (pool exhaustion, dropped connections) become storage errors.
func placeStoreError(err error, msg string) error {
	mapped := apperrors.MapDBError(err)
	if apperrors.GetCode(mapped) == "" {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, msg)
	}
	return mapped
}
