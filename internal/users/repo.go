package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("users: not found")

type User struct {
	ID        int64     `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	Phone     string    `json:"phone,omitempty"`
	Room      string    `json:"room,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT user_id, email, name, handle, COALESCE(phone, ''), COALESCE(room, ''), created_at
FROM users
WHERE email = $1;
`
	var u User
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Handle, &u.Phone, &u.Room, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row. The users.email unique constraint is the
// authority on duplicates: a concurrent insert of the same email surfaces as
// a unique violation, which is treated as "already exists" and resolved by
// re-reading the winning row.
func (r *Repo) Create(ctx context.Context, email, name, handle string) (*User, error) {
	const q = `
INSERT INTO users (email, name, handle, created_at)
VALUES ($1, $2, $3, now())
RETURNING user_id, email, name, handle, created_at;
`
	var u User
	err := r.db.QueryRowContext(ctx, q, email, name, handle).
		Scan(&u.ID, &u.Email, &u.Name, &u.Handle, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return r.GetByEmail(ctx, email)
	}
	return nil, err
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
