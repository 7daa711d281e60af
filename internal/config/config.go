package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type APPConfig struct {
	// Server port
	Port              string
	Env               string
	LogLevel          string
	StateCookieName   string
	NonceCookieName   string
	SessionCookieName string
	// Default UI language, e.g. "ja" or "en"
	DefaultLang string
	// How long the page handler waits for the profile sequence before rendering the loading view
	RenderTimeout time.Duration
}

type LINEConfig struct {
	ChannelID     string
	ChannelSecret string
	RedirectURL   string
	// LIFF app ID, "<channelID>-<suffix>"
	LIFFID string
	// Issuer used for OIDC discovery and ID token verification
	Issuer     string
	ProfileAPI string
	// Timeout applied to each SDK call made while rendering the profile page
	SDKTimeout time.Duration
	// Bound on the shared OpenID configuration fetch, independent of any page request
	DiscoveryTimeout time.Duration
}

type SessionConfig struct {
	Secret   string
	Duration time.Duration
	// "memory" or "redis"
	Store string
}

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

type Config struct {
	App     APPConfig
	LINE    LINEConfig
	OAuth   *oauth2.Config
	Session SessionConfig
	Redis   RedisSettings
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STATE_COOKIE_NAME", "line_oauth_state")
	viper.SetDefault("NONCE_COOKIE_NAME", "line_oauth_nonce")
	viper.SetDefault("SESSION_COOKIE_NAME", "line_session")
	viper.SetDefault("DEFAULT_LANG", "ja")
	viper.SetDefault("RENDER_TIMEOUT", "5s")
	viper.SetDefault("LINE_ISSUER", "https://access.line.me")
	viper.SetDefault("LINE_AUTH_URL", "https://access.line.me/oauth2/v2.1/authorize")
	viper.SetDefault("LINE_TOKEN_URL", "https://api.line.me/oauth2/v2.1/token")
	viper.SetDefault("LINE_PROFILE_API", "https://api.line.me/v2/profile")
	viper.SetDefault("SDK_TIMEOUT", "10s")
	viper.SetDefault("LINE_DISCOVERY_TIMEOUT", "15s")
	viper.SetDefault("SESSION_DURATION", "24h")
	viper.SetDefault("SESSION_STORE", SessionStoreMemory)
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	setDefaults()

	// Load configuration
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	sessionSecret := viper.GetString("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	sessionStore := strings.ToLower(viper.GetString("SESSION_STORE"))
	if sessionStore != SessionStoreMemory && sessionStore != SessionStoreRedis {
		log.Printf("Invalid session store '%s', defaulting to '%s'", sessionStore, SessionStoreMemory)
		sessionStore = SessionStoreMemory
	}

	line := LINEConfig{
		ChannelID:     viper.GetString("LINE_CHANNEL_ID"),
		ChannelSecret: viper.GetString("LINE_CHANNEL_SECRET"),
		RedirectURL:   viper.GetString("LINE_REDIRECT_URL"),
		LIFFID:        viper.GetString("LIFF_ID"),
		Issuer:        viper.GetString("LINE_ISSUER"),
		ProfileAPI:    viper.GetString("LINE_PROFILE_API"),
		SDKTimeout:    viper.GetDuration("SDK_TIMEOUT"),

		DiscoveryTimeout: viper.GetDuration("LINE_DISCOVERY_TIMEOUT"),
	}
	// The LIFF ID is validated at initialize time so a bad value surfaces on the page, not here.
	if line.ChannelID == "" || line.ChannelSecret == "" || line.RedirectURL == "" {
		log.Println("Warning: LINE_CHANNEL_ID, LINE_CHANNEL_SECRET or LINE_REDIRECT_URL is not set; LINE login will fail")
	}

	return &Config{
		App: APPConfig{
			Port:              viper.GetString("APP_PORT"),
			Env:               viper.GetString("APP_ENV"),
			LogLevel:          viper.GetString("LOG_LEVEL"),
			StateCookieName:   viper.GetString("STATE_COOKIE_NAME"),
			NonceCookieName:   viper.GetString("NONCE_COOKIE_NAME"),
			SessionCookieName: viper.GetString("SESSION_COOKIE_NAME"),
			DefaultLang:       viper.GetString("DEFAULT_LANG"),
			RenderTimeout:     viper.GetDuration("RENDER_TIMEOUT"),
		},
		LINE: line,
		OAuth: &oauth2.Config{
			ClientID:     line.ChannelID,
			ClientSecret: line.ChannelSecret,
			RedirectURL:  line.RedirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   viper.GetString("LINE_AUTH_URL"),
				TokenURL:  viper.GetString("LINE_TOKEN_URL"),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		Session: SessionConfig{
			Secret:   sessionSecret,
			Duration: viper.GetDuration("SESSION_DURATION"),
			Store:    sessionStore,
		},
		Redis: RedisSettings{
			Address:  viper.GetString("REDIS_ADDRESS"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}, nil
}
