// Package view implements the profile page component: it runs the SDK handshake once per
// mount and renders loading, error or profile output from the resulting state.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/i18n"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
)

// Phase is where the mount sequence currently is.
type Phase int

const (
	// PhaseInit waits for the SDK to initialize.
	PhaseInit Phase = iota
	// PhaseFetchingProfile waits for the profile of a logged in user.
	PhaseFetchingProfile
	// PhaseRedirecting means login was requested and the mount is done.
	PhaseRedirecting
	// PhaseProfileReady holds a profile.
	PhaseProfileReady
	// PhaseError holds a localized error message.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseFetchingProfile:
		return "fetching_profile"
	case PhaseRedirecting:
		return "redirecting"
	case PhaseProfileReady:
		return "profile_ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Settled reports whether the sequence has nothing left to do in this phase.
func (p Phase) Settled() bool {
	return p == PhaseRedirecting || p == PhaseProfileReady || p == PhaseError
}

// State is the component state. Profile and Err are never both set.
type State struct {
	Handle  sdk.Client
	Profile *models.Profile
	Err     string
	Phase   Phase
}

// Options tunes a ProfileView.
type Options struct {
	Lang language.Tag
	// SDKTimeout bounds each context-taking SDK call. Zero means no timeout.
	SDKTimeout time.Duration
	// RefreshInterval is how soon the loading page asks the browser to reload.
	RefreshInterval time.Duration
}

// ProfileView is one mount of the profile page.
type ProfileView struct {
	sdk     sdk.SDK
	cfg     sdk.Config
	opts    Options
	printer *message.Printer

	once      sync.Once
	done      chan struct{}
	mu        sync.RWMutex
	state     State
	cancel    context.CancelFunc
	unmounted bool
}

// NewProfileView creates a new instance of ProfileView. An undefined language falls back to
// Japanese.
func NewProfileView(s sdk.SDK, cfg sdk.Config, opts Options) *ProfileView {
	if opts.Lang == language.Und {
		opts.Lang = language.Japanese
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 2 * time.Second
	}
	return &ProfileView{
		sdk:     s,
		cfg:     cfg,
		opts:    opts,
		printer: i18n.Printer(opts.Lang),
		done:    make(chan struct{}),
	}
}

// Mount starts the handshake. Only the first call runs it; later calls return the same
// channel, which is closed once the sequence stops.
func (v *ProfileView) Mount(ctx context.Context) <-chan struct{} {
	v.once.Do(func() {
		v.mu.Lock()
		if v.unmounted {
			v.mu.Unlock()
			close(v.done)
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		v.cancel = cancel
		v.mu.Unlock()

		go v.run(runCtx)
	})
	return v.done
}

// Unmount discards the SDK handle and stops any pending continuation from touching state.
func (v *ProfileView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.unmounted = true
	if v.cancel != nil {
		v.cancel()
	}
	v.state.Handle = nil
}

// State returns a snapshot of the component state.
func (v *ProfileView) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Phase returns the current phase.
func (v *ProfileView) Phase() Phase {
	return v.State().Phase
}

func (v *ProfileView) run(ctx context.Context) {
	defer close(v.done)

	callCtx, cancel := v.callContext(ctx)
	handle, err := v.sdk.Init(callCtx, v.cfg)
	cancel()
	if err != nil {
		v.fail(ctx, i18n.MsgInitFailed, err)
		return
	}
	if !v.apply(ctx, func(s *State) { s.Handle = handle }) {
		return
	}

	if !handle.IsLoggedIn() {
		if ctx.Err() != nil {
			return
		}
		log.Info().Str("appId", v.cfg.AppID).Msg("User is not logged in, redirecting to login")
		handle.Login()
		v.apply(ctx, func(s *State) { s.Phase = PhaseRedirecting })
		return
	}

	if !v.apply(ctx, func(s *State) { s.Phase = PhaseFetchingProfile }) {
		return
	}

	callCtx, cancel = v.callContext(ctx)
	profile, err := handle.GetProfile(callCtx)
	cancel()
	if err == nil && profile == nil {
		err = &sdk.ProfileFetchError{Cause: errors.New("empty profile")}
	}
	if err != nil {
		v.fail(ctx, i18n.MsgProfileFailed, err)
		return
	}
	v.apply(ctx, func(s *State) {
		s.Profile = profile
		s.Phase = PhaseProfileReady
	})
}

func (v *ProfileView) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.opts.SDKTimeout > 0 {
		return context.WithTimeout(ctx, v.opts.SDKTimeout)
	}
	return context.WithCancel(ctx)
}

// fail records a terminal error. The cause goes to the log only. A failure caused by
// unmounting is not a failure of the step and is only logged at debug level.
func (v *ProfileView) fail(ctx context.Context, key string, cause error) {
	if ctx.Err() != nil {
		log.Debug().Err(cause).Str("appId", v.cfg.AppID).Msg("Profile view unmounted before the step finished")
		return
	}
	log.Error().Err(cause).Str("appId", v.cfg.AppID).Msg(key)
	text := v.printer.Sprintf(key)
	v.apply(ctx, func(s *State) {
		s.Profile = nil
		s.Err = text
		s.Phase = PhaseError
	})
}

// apply mutates state only while the view is still mounted.
func (v *ProfileView) apply(ctx context.Context, fn func(*State)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted || ctx.Err() != nil {
		log.Debug().Str("appId", v.cfg.AppID).Msg("Discarding result for unmounted profile view")
		return false
	}
	fn(&v.state)
	return true
}
