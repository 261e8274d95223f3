package claims

import (
	"context"
	"database/sql"
	"errors"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Claim moves an item FOUND -> CLAIMED and records the claim, its ID details
// and the new holder in one transaction. The status read takes a row lock, so
// of two concurrent claims on the same item exactly one commits; the other
// sees CLAIMED and gets ErrItemNotAvailable.
func (r *Repo) Claim(ctx context.Context, in ClaimInput) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM items WHERE item_id = $1 FOR UPDATE`, in.ItemID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotAvailable
	}
	if err != nil {
		return 0, err
	}
	if status != "FOUND" {
		return 0, ErrItemNotAvailable
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE user_id = $1`, in.ClaimantID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidUser
	}
	if err != nil {
		return 0, err
	}

	var claimID int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO claims (item_id, claimed_by, claim_date, expiry_date, phone, room)
VALUES ($1, $2, now(), now() + make_interval(days => $3), $4, $5)
RETURNING claim_id;
`, in.ItemID, in.ClaimantID, in.ExpiryDays, in.Contact.Phone, in.Contact.Room).Scan(&claimID)
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO claimant_id_details (claim_id, id_type, id_number)
VALUES ($1, $2, $3);
`, claimID, in.IDDetails.Type, in.IDDetails.Number); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
UPDATE items
SET status = 'CLAIMED', held_by = $2, holder_phone = $3, holder_room = $4
WHERE item_id = $1 AND status = 'FOUND';
`, in.ItemID, in.ClaimantID, in.Contact.Phone, in.Contact.Room)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n != 1 {
		// The lock above should make this unreachable; kept as a hard stop
		// so the item can never flip CLAIMED without this claim.
		return 0, ErrItemNotAvailable
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return claimID, nil
}

// Remove deletes a claim and reverts its item to FOUND atomically. The
// policy picks the reverted holder: the just-removed claimant (with the
// claim's contact snapshot) or the original uploader (with the uploader's
// stored contact).
func (r *Repo) Remove(ctx context.Context, claimID int64, policy RevertPolicy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		itemID     int64
		claimantID int64
		uploaderID int64
		phone      string
		room       string
	)
	err = tx.QueryRowContext(ctx, `
SELECT c.item_id, c.claimed_by, i.uploaded_by, COALESCE(c.phone, ''), COALESCE(c.room, '')
FROM claims c
JOIN items i ON i.item_id = c.item_id
WHERE c.claim_id = $1
FOR UPDATE;
`, claimID).Scan(&itemID, &claimantID, &uploaderID, &phone, &room)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrClaimNotFound
	}
	if err != nil {
		return err
	}

	holderID := claimantID
	if policy == RevertToUploader {
		holderID = uploaderID
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(phone, ''), COALESCE(room, '') FROM users WHERE user_id = $1`,
			uploaderID).Scan(&phone, &room)
		if err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `
UPDATE items
SET status = 'FOUND', held_by = $2, holder_phone = $3, holder_room = $4
WHERE item_id = $1;
`, itemID, holderID, phone, room); err != nil {
		return err
	}

	// claimant_id_details cascades on claim delete.
	if _, err = tx.ExecContext(ctx, `DELETE FROM claims WHERE claim_id = $1`, claimID); err != nil {
		return err
	}

	return tx.Commit()
}

const claimViewSelect = `
SELECT c.claim_id, c.item_id, i.item_name, c.claimed_by, u.name,
       COALESCE(d.id_type, ''), COALESCE(d.id_number, ''),
       COALESCE(c.phone, ''), COALESCE(c.room, ''),
       c.claim_date, c.expiry_date
FROM claims c
JOIN items i ON c.item_id = i.item_id
JOIN users u ON c.claimed_by = u.user_id
LEFT JOIN claimant_id_details d ON d.claim_id = c.claim_id`

// Active returns claims whose expiry has not passed.
func (r *Repo) Active(ctx context.Context) ([]ClaimView, error) {
	return r.queryViews(ctx, claimViewSelect+`
WHERE c.expiry_date >= now()
ORDER BY c.expiry_date, c.claim_id;`)
}

// All returns every claim, newest first.
func (r *Repo) All(ctx context.Context) ([]ClaimView, error) {
	return r.queryViews(ctx, claimViewSelect+`
ORDER BY c.claim_date DESC, c.claim_id DESC;`)
}

// ByUser returns one user's claims, newest first.
func (r *Repo) ByUser(ctx context.Context, userID int64) ([]ClaimView, error) {
	return r.queryViews(ctx, claimViewSelect+`
WHERE c.claimed_by = $1
ORDER BY c.claim_date DESC, c.claim_id DESC;`, userID)
}

// ExpiredIDs returns ids of claims whose expiry has passed.
func (r *Repo) ExpiredIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT claim_id FROM claims WHERE expiry_date < now() ORDER BY claim_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repo) queryViews(ctx context.Context, q string, args ...any) ([]ClaimView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ClaimView, 0, 16)
	for rows.Next() {
		var v ClaimView
		if err := rows.Scan(&v.ClaimID, &v.ItemID, &v.ItemName, &v.ClaimantID, &v.ClaimantName,
			&v.IDType, &v.IDNumber, &v.Phone, &v.Room, &v.ClaimDate, &v.ExpiryDate); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
