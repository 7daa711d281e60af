package service

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
)

var errNotLoggedIn = errors.New("not logged in")

// LineSDK is the sdk.SDK for one page request. The session is nil when the request
// carries no valid login.
type LineSDK struct {
	auth      *LineAuth
	session   *models.Session
	navigator sdk.Navigator
	loginURL  string
}

var _ sdk.SDK = (*LineSDK)(nil)

func NewLineSDK(auth *LineAuth, session *models.Session, navigator sdk.Navigator, loginURL string) *LineSDK {
	return &LineSDK{
		auth:      auth,
		session:   session,
		navigator: navigator,
		loginURL:  loginURL,
	}
}

// Init validates the app ID and makes sure the platform's OpenID configuration is reachable.
func (s *LineSDK) Init(ctx context.Context, cfg sdk.Config) (sdk.Client, error) {
	if err := s.auth.ValidateAppID(cfg.AppID); err != nil {
		return nil, &sdk.InitializationError{Cause: err}
	}
	if _, err := s.auth.Discover(ctx); err != nil {
		return nil, &sdk.InitializationError{Cause: err}
	}
	return &lineClient{sdk: s}, nil
}

type lineClient struct {
	sdk *LineSDK
}

func (c *lineClient) IsLoggedIn() bool {
	session := c.sdk.session
	return session != nil && !session.IsExpired() && session.Token().Valid()
}

func (c *lineClient) Login() {
	c.sdk.navigator.Navigate(c.sdk.loginURL)
}

func (c *lineClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	if !c.IsLoggedIn() {
		return nil, &sdk.ProfileFetchError{Cause: errNotLoggedIn}
	}
	profile, err := c.sdk.auth.FetchProfile(ctx, c.sdk.session.Token())
	if err != nil {
		return nil, &sdk.ProfileFetchError{Cause: err}
	}
	return profile, nil
}
