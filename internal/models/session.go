package models

import (
	"time"

	"golang.org/x/oauth2"
)

// Session represents a LINE login kept on the server side.
type Session struct {
	SessionID   string    `json:"sessionId"`   // Unique ID for this session, referenced by the session cookie
	UserID      string    `json:"userId"`      // LINE user ID (the ID token subject)
	DisplayName string    `json:"displayName"` // Display name from the ID token at login time
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	TokenExpiry time.Time `json:"tokenExpiry"` // When the LINE access token expires
	CreatedAt   time.Time `json:"createdAt"`
	Expiry      time.Time `json:"expiry"` // When the session expires
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.Expiry)
}

// Token rebuilds the OAuth2 token stored with the session.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		Expiry:      s.TokenExpiry,
	}
}
