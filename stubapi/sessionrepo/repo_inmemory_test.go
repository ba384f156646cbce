package sessionrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/stubapi/sessionrepo"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestInMemoryRepo_Lifecycle(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	require.NoError(t, repo.Create(api.SessionLog{ID: "s1", Active: true, CreatedAt: t0}))
	require.Error(t, repo.Create(api.SessionLog{ID: "s1"}))
	require.Error(t, repo.Create(api.SessionLog{}))

	require.NoError(t, repo.AppendActivity("s1", api.Activity{Action: "view", Section: "news"}))
	require.NoError(t, repo.End("s1", "manual", t0.Add(time.Hour)))
	require.NoError(t, repo.End("s1", "token_expired", t0.Add(2*time.Hour)))

	got, err := repo.Get("s1")
	require.NoError(t, err)
	require.False(t, got.Active)
	require.Equal(t, "manual", got.Reason)
	require.Equal(t, t0.Add(time.Hour), *got.EndedAt)
	require.Len(t, got.Activities, 1)

	err = repo.AppendActivity("s1", api.Activity{Action: "view"})
	require.ErrorIs(t, err, sessionrepo.ErrSessionEnded)
}

func TestInMemoryRepo_Revoke(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	require.NoError(t, repo.Create(api.SessionLog{ID: "s1", Active: true, CreatedAt: t0}))

	require.NoError(t, repo.Revoke("s1", "lost laptop", t0.Add(time.Minute)))
	got, err := repo.Get("s1")
	require.NoError(t, err)
	require.False(t, got.Active)
	require.Equal(t, sessionrepo.ReasonRevoked, got.Reason)
	require.Equal(t, "lost laptop", got.Note)

	require.ErrorIs(t, repo.Revoke("nope", "", t0), apperrors.ErrSessionNotFound)
}

func TestInMemoryRepo_UnknownSession(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	_, err := repo.Get("x")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	require.ErrorIs(t, repo.AppendActivity("x", api.Activity{}), apperrors.ErrSessionNotFound)
	require.ErrorIs(t, repo.End("x", "manual", t0), apperrors.ErrSessionNotFound)
}

func TestInMemoryRepo_ListNewestFirstAndCopies(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	require.NoError(t, repo.Create(api.SessionLog{ID: "old", Active: true, CreatedAt: t0}))
	require.NoError(t, repo.Create(api.SessionLog{ID: "new", Active: true, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.AppendActivity("old", api.Activity{Action: "view"}))

	list, err := repo.List()
	require.NoError(t, err)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)

	list[1].Activities[0].Action = "mutated"
	got, err := repo.Get("old")
	require.NoError(t, err)
	require.Equal(t, "view", got.Activities[0].Action)
}
