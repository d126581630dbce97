package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"anonchat/domain"
)

func newTestIndex(t *testing.T) *RosterIndex {
	index, err := NewRosterIndex(slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestRosterIndex_Search_By_Substring(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Wanderer", Code: "#AAAA"}))
	req.NoError(index.Index(domain.Session{Identity: "u2", Pseudonym: "Stargazer", Code: "#BBBB"}))

	hits, err := index.Search(context.Background(), "wander", 10)

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Wanderer", hits[0].Pseudonym)
	req.Equal("#AAAA", hits[0].Code)
}

func TestRosterIndex_Search_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Wanderer", Code: "#AAAA"}))

	hits, err := index.Search(context.Background(), "WANDER", 10)

	req.NoError(err)
	req.Len(hits, 1)
}

func TestRosterIndex_Reindex_Replaces_Document(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Wanderer", Code: "#AAAA"}))

	// When the same identity is reindexed under a new pseudonym
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Stargazer", Code: "#AAAA"}))

	hits, err := index.Search(context.Background(), "wander", 10)
	req.NoError(err)
	req.Empty(hits)

	hits, err = index.Search(context.Background(), "star", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Stargazer", hits[0].Pseudonym)
}

func TestRosterIndex_Remove(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Wanderer", Code: "#AAAA"}))

	req.NoError(index.Remove("u1"))

	hits, err := index.Search(context.Background(), "wander", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestRosterIndex_No_Match(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	req.NoError(index.Index(domain.Session{Identity: "u1", Pseudonym: "Wanderer", Code: "#AAAA"}))

	hits, err := index.Search(context.Background(), "zzz", 10)

	req.NoError(err)
	req.Empty(hits)
}
