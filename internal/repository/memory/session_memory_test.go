package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := memory.NewMemorySessionRepository(time.Minute)
	t.Cleanup(repo.StopCleanup)
	ctx := context.Background()

	session := &models.Session{
		SessionID:   "sess-1",
		UserID:      "U1",
		DisplayName: "Alice",
		AccessToken: "access",
		TokenType:   "Bearer",
		TokenExpiry: time.Now().UTC().Add(time.Hour),
		CreatedAt:   time.Now().UTC(),
		Expiry:      time.Now().UTC().Add(time.Hour),
	}

	t.Run("StoreAndGet", func(t *testing.T) {
		require.NoError(t, repo.StoreSession(ctx, session))

		got, err := repo.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, session.UserID, got.UserID)
		assert.Equal(t, session.AccessToken, got.AccessToken)
	})

	t.Run("InvalidSession", func(t *testing.T) {
		assert.Error(t, repo.StoreSession(ctx, nil))
		assert.Error(t, repo.StoreSession(ctx, &models.Session{SessionID: "no-user"}))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetSession(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := *session
		expired.SessionID = "sess-expired"
		expired.Expiry = time.Now().UTC().Add(-time.Minute)
		require.NoError(t, repo.StoreSession(ctx, &expired))

		_, err := repo.GetSession(ctx, expired.SessionID)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteSession(ctx, session.SessionID))
		_, err := repo.GetSession(ctx, session.SessionID)
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)

		// Deleting twice is fine.
		assert.NoError(t, repo.DeleteSession(ctx, session.SessionID))
	})
}

func TestMemorySessionRepository_Cleanup(t *testing.T) {
	repo := memory.NewMemorySessionRepository(10 * time.Millisecond)
	t.Cleanup(repo.StopCleanup)
	ctx := context.Background()

	require.NoError(t, repo.StoreSession(ctx, &models.Session{
		SessionID: "short-lived",
		UserID:    "U1",
		Expiry:    time.Now().UTC().Add(20 * time.Millisecond),
	}))

	assert.Eventually(t, func() bool {
		_, err := repo.GetSession(ctx, "short-lived")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
