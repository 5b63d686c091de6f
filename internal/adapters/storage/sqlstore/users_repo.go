package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/ports/store"

	"github.com/Masterminds/squirrel"
)

var userColumns = []string{"uid", "name", "email", "city", "mobile", "role", "show_in_list"}

// UsersRepo: los sets adoptedAnimals/helpedAnimals viven en user_claims,
// cuya PK (animal_id) garantiza que un animal está en un solo set.
type UsersRepo struct {
	db  *DB
	now func() time.Time
}

func NewUsersRepo(db *DB) *UsersRepo {
	return &UsersRepo{db: db, now: time.Now}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := r.db.sb.Insert("users").
		Columns(userColumns...).
		Values(u.UID, u.Name, u.Email, u.City, u.Mobile, string(u.Role), u.ShowInList).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translate(err)
	}

	for _, c := range []struct {
		set users.ClaimSet
		ids []string
	}{{users.SetAdopted, u.AdoptedAnimals}, {users.SetHelped, u.HelpedAnimals}} {
		for _, id := range c.ids {
			if err := r.insertClaim(ctx, tx, u.UID, id, c.set); err != nil {
				return err
			}
		}
	}

	return translate(tx.Commit())
}

func (r *UsersRepo) GetByID(ctx context.Context, uid string) (users.User, error) {
	query, args, err := r.db.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"uid": uid}).
		ToSql()
	if err != nil {
		return users.User{}, err
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return users.User{}, translate(err)
	}

	byUser, err := r.claimsFor(ctx, []string{u.UID})
	if err != nil {
		return users.User{}, err
	}
	fill(&u, byUser[u.UID])
	return u, nil
}

func (r *UsersRepo) ListByRole(ctx context.Context, role users.Role) ([]users.User, error) {
	query, args, err := r.db.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": string(role)}).
		OrderBy("uid ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, translate(err)
		}
		out = append(out, u)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, translate(err)
	}
	if len(out) == 0 {
		return out, nil
	}

	uids := make([]string, 0, len(out))
	for _, u := range out {
		uids = append(uids, u.UID)
	}
	byUser, err := r.claimsFor(ctx, uids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		fill(&out[i], byUser[out[i].UID])
	}
	return out, nil
}

func (r *UsersRepo) SetShowInList(ctx context.Context, uid string, show bool) error {
	query, args, err := r.db.sb.Update("users").
		Set("show_in_list", show).
		Where(squirrel.Eq{"uid": uid}).
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

// AppendClaim inserta con ON CONFLICT DO NOTHING; si no insertó, mira de quién es.
func (r *UsersRepo) AppendClaim(ctx context.Context, uid, animalID string, set users.ClaimSet) error {
	if !set.Valid() {
		return fmt.Errorf("%w: unknown set %q", store.ErrConflict, set)
	}
	if err := r.exists(ctx, uid); err != nil {
		return err
	}

	err := r.insertClaim(ctx, r.db, uid, animalID, set)
	if !errors.Is(err, store.ErrConflict) {
		return err
	}

	query, args, qerr := r.db.sb.Select("user_id", "claim_set").
		From("user_claims").
		Where(squirrel.Eq{"animal_id": animalID}).
		ToSql()
	if qerr != nil {
		return qerr
	}
	var owner, current string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&owner, &current); err != nil {
		return translate(err)
	}
	if owner == uid && users.ClaimSet(current) == set {
		return nil
	}
	return store.ErrConflict
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertClaim devuelve store.ErrConflict si animal_id ya estaba.
func (r *UsersRepo) insertClaim(ctx context.Context, ex execer, uid, animalID string, set users.ClaimSet) error {
	query, args, err := r.db.sb.Insert("user_claims").
		Columns("animal_id", "user_id", "claim_set", "created_at").
		Values(animalID, uid, string(set), r.now().UTC()).
		Suffix("ON CONFLICT (animal_id) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *UsersRepo) exists(ctx context.Context, uid string) error {
	query, args, err := r.db.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"uid": uid}).
		ToSql()
	if err != nil {
		return err
	}
	var one int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		return translate(err)
	}
	return nil
}

type claimRow struct {
	animalID string
	set      users.ClaimSet
}

func (r *UsersRepo) claimsFor(ctx context.Context, uids []string) (map[string][]claimRow, error) {
	query, args, err := r.db.sb.Select("user_id", "animal_id", "claim_set").
		From("user_claims").
		Where(squirrel.Eq{"user_id": uids}).
		OrderBy("created_at ASC", "animal_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make(map[string][]claimRow, len(uids))
	for rows.Next() {
		var uid, animalID, set string
		if err := rows.Scan(&uid, &animalID, &set); err != nil {
			return nil, translate(err)
		}
		out[uid] = append(out[uid], claimRow{animalID: animalID, set: users.ClaimSet(set)})
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func fill(u *users.User, claims []claimRow) {
	u.AdoptedAnimals = []string{}
	u.HelpedAnimals = []string{}
	for _, c := range claims {
		switch c.set {
		case users.SetAdopted:
			u.AdoptedAnimals = append(u.AdoptedAnimals, c.animalID)
		case users.SetHelped:
			u.HelpedAnimals = append(u.HelpedAnimals, c.animalID)
		}
	}
}

func scanUser(s scanner) (users.User, error) {
	var (
		u    users.User
		role string
	)
	if err := s.Scan(&u.UID, &u.Name, &u.Email, &u.City, &u.Mobile, &role, &u.ShowInList); err != nil {
		return users.User{}, err
	}
	u.Role = users.Role(role)
	return u, nil
}
