package claims

import (
	"errors"
	"time"
)

var (
	// ErrItemNotAvailable covers both an absent item and one that is not
	// FOUND; callers cannot tell the two apart.
	ErrItemNotAvailable = errors.New("claims: item not available")
	ErrInvalidUser      = errors.New("claims: invalid user")
	ErrClaimNotFound    = errors.New("claims: claim not found")
)

// RevertPolicy decides who becomes the item's holder-of-record when a claim
// is removed.
type RevertPolicy string

const (
	// RevertToClaimant keeps the just-removed claimant as holder: the item
	// stays with the last person who physically had it.
	RevertToClaimant RevertPolicy = "claimant"
	// RevertToUploader hands the item back to the original reporter.
	RevertToUploader RevertPolicy = "uploader"
)

// Contact is the phone/room snapshot recorded with a claim and mirrored onto
// the item while the claim is active.
type Contact struct {
	Phone string `json:"phone"`
	Room  string `json:"room"`
}

// IDDetails is the identity document presented by the claimant.
type IDDetails struct {
	Type   string `json:"id_type"`
	Number string `json:"id_number"`
}

type ClaimInput struct {
	ItemID     int64
	ClaimantID int64
	Contact    Contact
	IDDetails  IDDetails
	ExpiryDays int
}

// ClaimView is a claim joined with its item, claimant and ID details.
type ClaimView struct {
	ClaimID      int64     `json:"claim_id"`
	ItemID       int64     `json:"item_id"`
	ItemName     string    `json:"item_name"`
	ClaimantID   int64     `json:"claimed_by"`
	ClaimantName string    `json:"claimant_name"`
	IDType       string    `json:"id_type,omitempty"`
	IDNumber     string    `json:"id_number,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Room         string    `json:"room,omitempty"`
	ClaimDate    time.Time `json:"claim_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
}
