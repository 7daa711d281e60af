package service_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/config"
)

const testChannelID = "1234"

// fakeLine serves the LINE endpoints the service talks to.
type fakeLine struct {
	server          *httptest.Server
	discoveryHits   atomic.Int32
	tokenHandler    http.HandlerFunc
	profileHandler  http.HandlerFunc
	discoveryStatus int
	discoveryDelay  time.Duration
}

func newFakeLine(t *testing.T) *fakeLine {
	t.Helper()
	f := &fakeLine{discoveryStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		f.discoveryHits.Add(1)
		time.Sleep(f.discoveryDelay)
		if f.discoveryStatus != http.StatusOK {
			w.WriteHeader(f.discoveryStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"issuer":%q,"authorization_endpoint":%q,"token_endpoint":%q,"jwks_uri":%q,"id_token_signing_alg_values_supported":["ES256"]}`,
			f.server.URL, f.server.URL+"/oauth2/v2.1/authorize", f.server.URL+"/oauth2/v2.1/token", f.server.URL+"/oauth2/v2.1/certs")
	})
	mux.HandleFunc("/oauth2/v2.1/token", func(w http.ResponseWriter, r *http.Request) {
		if f.tokenHandler == nil {
			http.Error(w, "unexpected token request", http.StatusInternalServerError)
			return
		}
		f.tokenHandler(w, r)
	})
	mux.HandleFunc("/v2/profile", func(w http.ResponseWriter, r *http.Request) {
		if f.profileHandler == nil {
			http.Error(w, "unexpected profile request", http.StatusInternalServerError)
			return
		}
		f.profileHandler(w, r)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeLine) config() *config.Config {
	return &config.Config{
		LINE: config.LINEConfig{
			ChannelID:     testChannelID,
			ChannelSecret: "channel-secret",
			RedirectURL:   "http://localhost/auth/line/callback",
			LIFFID:        testChannelID + "-abcd",
			Issuer:        f.server.URL,
			ProfileAPI:    f.server.URL + "/v2/profile",
		},
		OAuth: &oauth2.Config{
			ClientID:     testChannelID,
			ClientSecret: "channel-secret",
			RedirectURL:  "http://localhost/auth/line/callback",
			Scopes:       []string{"openid", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   f.server.URL + "/oauth2/v2.1/authorize",
				TokenURL:  f.server.URL + "/oauth2/v2.1/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

func newSigningKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func signIDToken(t *testing.T, key *ecdsa.PrivateKey, issuer, audience, nonce string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss":     issuer,
		"sub":     "U1",
		"aud":     audience,
		"exp":     now.Add(time.Hour).Unix(),
		"iat":     now.Unix(),
		"nonce":   nonce,
		"name":    "Alice",
		"picture": "https://x/y.png",
	})
	raw, err := token.SignedString(key)
	require.NoError(t, err)
	return raw
}

func validToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: "line-access-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
}
