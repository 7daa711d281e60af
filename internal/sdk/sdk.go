// Package sdk describes the login SDK the profile page drives: initialize, check login,
// redirect to login and fetch the profile.
package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
)

// ErrInvalidAppID is the cause of an InitializationError when the app ID is empty or
// does not belong to the configured channel.
var ErrInvalidAppID = errors.New("invalid app id")

// Config is the initialize option set.
type Config struct {
	// AppID is the application identifier issued by the platform (the LIFF ID).
	AppID string
}

// SDK brings a Client to a usable state.
type SDK interface {
	// Init returns the SDK handle, or an *InitializationError.
	Init(ctx context.Context, cfg Config) (Client, error)
}

// Client is an initialized SDK handle.
type Client interface {
	// IsLoggedIn is only valid after a successful Init.
	IsLoggedIn() bool
	// Login sends the user agent into the platform login flow. Control does not come back
	// to the caller's sequence; the page is requested again after the flow finishes.
	Login()
	// GetProfile returns the logged-in user's profile, or a *ProfileFetchError.
	GetProfile(ctx context.Context) (*models.Profile, error)
}

// Navigator performs full-page navigations on behalf of Login.
type Navigator interface {
	Navigate(url string)
}

// InitializationError means the SDK could not be brought to a usable state.
type InitializationError struct {
	Cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("sdk initialization failed: %v", e.Cause)
}

func (e *InitializationError) Unwrap() error { return e.Cause }

// ProfileFetchError means the SDK was usable but the profile could not be retrieved.
type ProfileFetchError struct {
	Cause error
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("profile fetch failed: %v", e.Cause)
}

func (e *ProfileFetchError) Unwrap() error { return e.Cause }
