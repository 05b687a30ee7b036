package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todolabs/todolist/internal/domain"
	storemem "github.com/todolabs/todolist/internal/store/memory"
	"github.com/todolabs/todolist/internal/token"
)

func newTokenFixture(t *testing.T, refreshTTL time.Duration) (TokenService, *storemem.Store, *domain.User) {
	t.Helper()

	store := storemem.New()
	svc := NewTokenService(TokenDeps{
		Issuer:     token.NewIssuer("test-secret", "todolist", time.Hour),
		Users:      store.Users(),
		Refresh:    store.RefreshTokens(),
		RefreshTTL: refreshTTL,
	})

	user, err := store.Users().FindOrCreate(context.Background(), domain.NewUser{
		Provider:    "kakao",
		ProviderID:  "u-1",
		DisplayName: "dev",
	})
	require.NoError(t, err)
	return svc, store, user
}

func TestRenewRotates(t *testing.T) {
	svc, _, user := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user)
	require.NoError(t, err)

	renewed, err := svc.Renew(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, renewed.RefreshToken)
	assert.Equal(t, user.ID, renewed.User.ID)

	// The consumed secret is dead.
	_, err = svc.Renew(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The rotated one works.
	_, err = svc.Renew(ctx, renewed.RefreshToken)
	require.NoError(t, err)
}

func TestRenewRejectsUnknownAndMutatedSecrets(t *testing.T) {
	svc, _, user := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user)
	require.NoError(t, err)

	_, err = svc.Renew(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = svc.Renew(ctx, "never-issued")
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// Flip one character: the hash misses entirely.
	mutated := []byte(sess.RefreshToken)
	if mutated[0] == 'A' {
		mutated[0] = 'B'
	} else {
		mutated[0] = 'A'
	}
	_, err = svc.Renew(ctx, string(mutated))
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The original is still intact after the failed attempts.
	_, err = svc.Renew(ctx, sess.RefreshToken)
	require.NoError(t, err)
}

func TestRenewExpiredDeletesRecord(t *testing.T) {
	svc, store, user := newTokenFixture(t, -time.Minute)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user)
	require.NoError(t, err)

	_, err = svc.Renew(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, ErrExpiredRefresh)

	// The record was purged, so a second attempt is plain invalid.
	_, err = svc.Renew(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	n, err := store.RefreshTokens().DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n, "expired record should already be gone")
}

func TestRenewConcurrentSingleWinner(t *testing.T) {
	svc, _, user := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user)
	require.NoError(t, err)

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Renew(ctx, sess.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrInvalidRefresh)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent renewal may succeed")
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, user := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.RefreshToken))
	require.NoError(t, svc.Logout(ctx, sess.RefreshToken))
	require.NoError(t, svc.Logout(ctx, "never-issued"))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.Renew(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestSweeperPurgesExpired(t *testing.T) {
	_, store, user := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.RefreshTokens().Create(ctx, &domain.RefreshToken{
		ID: "old", UserID: user.ID, TokenHash: "h-old", ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, store.RefreshTokens().Create(ctx, &domain.RefreshToken{
		ID: "live", UserID: user.ID, TokenHash: "h-live", ExpiresAt: now.Add(time.Hour),
	}))

	s := &Sweeper{Refresh: store.RefreshTokens(), Interval: time.Hour}
	s.sweep(ctx)

	_, err := store.RefreshTokens().GetByHash(ctx, "h-old")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.RefreshTokens().GetByHash(ctx, "h-live")
	require.NoError(t, err)
}
