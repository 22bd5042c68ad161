// Package domain contains the request and response shapes exchanged with the paste API.
package domain

import "errors"

var (
	// ErrContentRequired is returned when a paste has no content.
	ErrContentRequired = errors.New("content required")
	// ErrInvalidTTL is returned when the time-to-live is negative.
	ErrInvalidTTL = errors.New("ttl must be a positive number of seconds")
	// ErrInvalidMaxViews is returned when the view limit is negative.
	ErrInvalidMaxViews = errors.New("max views must be positive")
)

// CreatePasteRequest describes a paste to create. Zero values mean the option is absent.
type CreatePasteRequest struct {
	Content    string `json:"content"`
	TTLSeconds int    `json:"ttlSeconds,omitempty"`
	MaxViews   int    `json:"maxViews,omitempty"`
	Title      string `json:"title,omitempty"`
	Language   string `json:"language,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Validate reports the first problem with r, if any.
func (r CreatePasteRequest) Validate() error {
	if r.Content == "" {
		return ErrContentRequired
	}
	if r.TTLSeconds < 0 {
		return ErrInvalidTTL
	}
	if r.MaxViews < 0 {
		return ErrInvalidMaxViews
	}
	return nil
}

// CreatePasteForm is the form body posted by the create page.
type CreatePasteForm struct {
	Content    string `form:"content" binding:"required"`
	TTLSeconds int    `form:"ttl_seconds" binding:"omitempty,gte=1"`
	MaxViews   int    `form:"max_views" binding:"omitempty,gte=1"`
	Title      string `form:"title"`
	Language   string `form:"language"`
	Password   string `form:"password"`
}

// ToRequest converts the form into a CreatePasteRequest.
func (f CreatePasteForm) ToRequest() CreatePasteRequest {
	return CreatePasteRequest{
		Content:    f.Content,
		TTLSeconds: f.TTLSeconds,
		MaxViews:   f.MaxViews,
		Title:      f.Title,
		Language:   f.Language,
		Password:   f.Password,
	}
}

// PasteResponse is the result of creating a paste.
// URL always points at the frontend origin, never at the API host.
type PasteResponse struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	ExpireAt *string `json:"expireAt"`
}

// ViewPasteResponse is a paste as shown to a viewer.
type ViewPasteResponse struct {
	Content             string  `json:"content"`
	RemainingViews      *int    `json:"remainingViews"`
	ExpiresAt           *string `json:"expiresAt"`
	CreatedAt           string  `json:"createdAt"`
	Title               string  `json:"title,omitempty"`
	Language            string  `json:"language,omitempty"`
	IsPasswordProtected bool    `json:"isPasswordProtected"`
}
