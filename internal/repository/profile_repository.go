package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/giorgimart/cityvibe/internal/model"
)

// ProfileRepo provides access to the profiles table. One profile row
// exists per user, created at registration time. The credits column is
// written only by the check-in award transaction; profile edits through
// Update never touch it.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo returns a new ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// CreateTx inserts an empty profile for a newly registered user within
// the scope of an existing transaction. Credits start at zero.
func (r *ProfileRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, displayName string) error {
	const q = `INSERT INTO profiles (user_id, display_name, credits, hobbies) VALUES (?, ?, 0, JSON_ARRAY())`
	_, err := tx.ExecContext(ctx, q, userID, displayName)
	return err
}

// GetByUserID returns the profile for a user, decoding the hobbies JSON
// column into a string slice. ErrProfileNotFound is returned when the
// user has no profile row.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT user_id, display_name, credits, hobbies, age, gender, created_at, updated_at
		FROM profiles WHERE user_id = ?`
	var (
		p          model.Profile
		hobbiesRaw []byte
		age        sql.NullInt16
		gender     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.DisplayName, &p.Credits, &hobbiesRaw, &age, &gender,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Hobbies = []string{}
	if len(hobbiesRaw) > 0 {
		if err := json.Unmarshal(hobbiesRaw, &p.Hobbies); err != nil {
			return nil, err
		}
	}
	if age.Valid {
		a := uint8(age.Int16)
		p.Age = &a
	}
	if gender.Valid {
		g := gender.String
		p.Gender = &g
	}
	return &p, nil
}

// Update writes the editable profile fields (display name, hobbies and
// demographics). Credits are intentionally excluded: the award
// transaction is the only writer of that column.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	hobbies := p.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	raw, err := json.Marshal(hobbies)
	if err != nil {
		return err
	}
	const q = `UPDATE profiles
		SET display_name = ?, hobbies = ?, age = ?, gender = ?, updated_at = NOW()
		WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.DisplayName, raw, p.Age, p.Gender, p.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// AddCreditsTx adds amount to the user's balance within the scope of an
// existing transaction and returns the new total read back inside the
// same transaction.
func (r *ProfileRepo) AddCreditsTx(ctx context.Context, tx *sql.Tx, userID string, amount uint32) (uint32, error) {
	const upd = `UPDATE profiles SET credits = credits + ?, updated_at = NOW() WHERE user_id = ?`
	res, err := tx.ExecContext(ctx, upd, amount, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrProfileNotFound
	}
	var total uint32
	const sel = `SELECT credits FROM profiles WHERE user_id = ?`
	if err := tx.QueryRowContext(ctx, sel, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
