package models

import "errors"

var (
	ErrProfileMissingUserID      = errors.New("profile is missing userId")
	ErrProfileMissingDisplayName = errors.New("profile is missing displayName")
)

// Profile is the identity of the logged-in LINE user.
type Profile struct {
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId"`
	PictureURL  string `json:"pictureUrl,omitempty"` // Optional, empty when the user has no picture
}

// HasPicture reports whether the platform returned a picture URL.
func (p *Profile) HasPicture() bool {
	return p != nil && p.PictureURL != ""
}

// Validate checks the fields the page cannot render without.
func (p *Profile) Validate() error {
	if p.UserID == "" {
		return ErrProfileMissingUserID
	}
	if p.DisplayName == "" {
		return ErrProfileMissingDisplayName
	}
	return nil
}
