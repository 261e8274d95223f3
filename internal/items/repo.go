package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bits-lost-found/go-backend/internal/users"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Insert creates the item and refreshes the reporter's contact-of-record in
// one transaction, so a contact update is never observable without its item.
func (r *Repo) Insert(ctx context.Context, in ReportInput, imageURL string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE category_id = $1`, in.CategoryID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidCategory
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET phone = $2, room = $3 WHERE user_id = $1`,
		in.ReporterID, in.Phone, in.Room)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, users.ErrNotFound
	}

	const q = `
INSERT INTO items
  (item_name, description, location_found, date_found, image_url,
   status, uploaded_by, held_by, holder_phone, holder_room, category_id, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), 'FOUND', $6, $6, $7, $8, $9, now())
RETURNING item_id;
`
	var id int64
	err = tx.QueryRowContext(ctx, q,
		in.Name, in.Description, in.Location, in.DateFound, imageURL,
		in.ReporterID, in.Phone, in.Room, in.CategoryID).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// List returns FOUND items matching the filters, joined with category and
// holder info. Results are in insertion order (item_id) so identical filters
// always list identically.
func (r *Repo) List(ctx context.Context, f ListFilters) ([]ItemView, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT i.item_id, i.item_name, i.description, i.location_found, i.date_found,
       COALESCE(i.image_url, ''), c.category_name,
       u.name, COALESCE(i.holder_phone, ''), COALESCE(i.holder_room, '')
FROM items i
JOIN categories c ON i.category_id = c.category_id
JOIN users u ON i.held_by = u.user_id
WHERE i.status = 'FOUND'`)

	args := make([]any, 0, 4)
	if f.Category != "" {
		args = append(args, f.Category)
		fmt.Fprintf(&sb, " AND c.category_name = $%d", len(args))
	}
	if f.Days > 0 {
		args = append(args, time.Now().AddDate(0, 0, -f.Days))
		fmt.Fprintf(&sb, " AND i.date_found >= $%d", len(args))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		fmt.Fprintf(&sb, " AND LOWER(i.location_found) LIKE LOWER($%d)", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&sb, " AND LOWER(i.item_name) LIKE LOWER($%d)", len(args))
	}
	sb.WriteString(" ORDER BY i.item_id;")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ItemView, 0, 16)
	for rows.Next() {
		var v ItemView
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Location, &v.DateFound,
			&v.ImageURL, &v.Category, &v.HolderName, &v.HolderPhone, &v.HolderRoom); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
