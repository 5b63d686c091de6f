package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/ports/store"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var animalColumns = []string{
	"id", "name", "type", "purpose", "city", "address", "image_url",
	"latitude", "longitude", "is_available", "claimed_by", "created_at",
}

type AnimalsRepo struct {
	db *DB
}

func NewAnimalsRepo(db *DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = a.CreatedAt.UTC()

	var lat, lng sql.NullFloat64
	if a.Location != nil {
		lat = sql.NullFloat64{Float64: a.Location.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: a.Location.Longitude, Valid: true}
	}

	q := r.db.sb.Insert("animals").
		Columns(animalColumns...).
		Values(a.ID, a.Name, a.Type, string(a.Purpose), a.City, a.Address, a.ImageURL,
			lat, lng, a.IsAvailable, nullString(a.ClaimedBy), a.CreatedAt)

	query, args, err := q.ToSql()
	if err != nil {
		return animals.Animal{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return animals.Animal{}, translate(err)
	}
	return a, nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, store.ErrNotFound
	}

	query, args, err := r.db.sb.Select(animalColumns...).
		From("animals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return animals.Animal{}, err
	}

	a, err := scanAnimal(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return animals.Animal{}, translate(err)
	}
	return a, nil
}

// ListAvailable: orden de alta.
func (r *AnimalsRepo) ListAvailable(ctx context.Context) ([]animals.Animal, error) {
	return r.list(ctx, r.db.sb.Select(animalColumns...).
		From("animals").
		Where(squirrel.Eq{"is_available": true}).
		OrderBy("created_at ASC", "id ASC"))
}

// ListByIDs respeta el orden de ids y omite los que no existen.
func (r *AnimalsRepo) ListByIDs(ctx context.Context, ids []string) ([]animals.Animal, error) {
	if len(ids) == 0 {
		return []animals.Animal{}, nil
	}
	found, err := r.list(ctx, r.db.sb.Select(animalColumns...).
		From("animals").
		Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]animals.Animal, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]animals.Animal, 0, len(found))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *AnimalsRepo) SetClaimed(ctx context.Context, id, claimedBy string) error {
	query, args, err := r.db.sb.Update("animals").
		Set("is_available", false).
		Set("claimed_by", claimedBy).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ClaimIfAvailable es el compare-and-set: el WHERE incluye is_available.
func (r *AnimalsRepo) ClaimIfAvailable(ctx context.Context, id, claimedBy string) error {
	query, args, err := r.db.sb.Update("animals").
		Set("is_available", false).
		Set("claimed_by", claimedBy).
		Where(squirrel.Eq{"id": id, "is_available": true}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	// No aplicó: o no existe, o ya estaba tomado.
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur.ClaimedBy == claimedBy {
		return nil
	}
	return store.ErrConditionFailed
}

func (r *AnimalsRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]animals.Animal, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (animals.Animal, error) {
	var (
		a         animals.Animal
		purpose   string
		lat, lng  sql.NullFloat64
		claimedBy sql.NullString
		createdAt time.Time
	)
	if err := s.Scan(
		&a.ID,
		&a.Name,
		&a.Type,
		&purpose,
		&a.City,
		&a.Address,
		&a.ImageURL,
		&lat,
		&lng,
		&a.IsAvailable,
		&claimedBy,
		&createdAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Purpose = animals.Purpose(purpose)
	if lat.Valid && lng.Valid {
		a.Location = &animals.Geo{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	a.ClaimedBy = claimedBy.String
	a.CreatedAt = createdAt.UTC()
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
