package items

import (
	"errors"
	"io"
	"time"
)

// Item availability states.
const (
	StatusFound   = "FOUND"
	StatusClaimed = "CLAIMED"
)

var (
	ErrInvalidCategory  = errors.New("items: invalid category")
	ErrUnsupportedImage = errors.New("items: unsupported image type")
)

// ImageUpload carries an optional image attached to a report.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// ReportInput is everything a found-item report supplies. Reporting also
// refreshes the reporter's contact-of-record (phone, room).
type ReportInput struct {
	Name        string
	Description string
	Location    string
	DateFound   time.Time
	CategoryID  int64
	ReporterID  int64
	Phone       string
	Room        string
	Image       *ImageUpload
}

// ItemView is a listing row joined with category and current-holder info.
type ItemView struct {
	ID          int64     `json:"item_id"`
	Name        string    `json:"item_name"`
	Description string    `json:"description"`
	Location    string    `json:"location_found"`
	DateFound   time.Time `json:"date_found"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category_name"`
	HolderName  string    `json:"holder_name"`
	HolderPhone string    `json:"holder_phone,omitempty"`
	HolderRoom  string    `json:"holder_room,omitempty"`
}

// ListFilters are optional and ANDed together.
type ListFilters struct {
	Category string
	Days     int
	Location string
	Search   string
}

// IsZero reports whether no filter is set (the cacheable listing).
func (f ListFilters) IsZero() bool {
	return f.Category == "" && f.Days == 0 && f.Location == "" && f.Search == ""
}
