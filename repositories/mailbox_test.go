package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"anonchat/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMailboxRepository_Append_And_List_In_Order(t *testing.T) {
	req := require.New(t)
	repo := NewMailboxRepository(openTestDB(t), slog.Default())
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Given three messages arriving over time
	for i, text := range []string{"first", "second", "third"} {
		req.NoError(repo.Append("bob", domain.MailboxEntry{
			From: "🆔AbCdEf",
			Text: text,
			At:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.List("bob")

	// Then they come back oldest-first
	req.NoError(err)
	req.Len(entries, 3)
	req.Equal("first", entries[0].Text)
	req.Equal("third", entries[2].Text)
	req.Equal(base, entries[0].At)
}

func TestMailboxRepository_List_Does_Not_Clear(t *testing.T) {
	req := require.New(t)
	repo := NewMailboxRepository(openTestDB(t), slog.Default())
	req.NoError(repo.Append("bob", domain.MailboxEntry{From: "a", Text: "hi", At: time.Now()}))

	// When reading the mailbox twice
	first, err := repo.List("bob")
	req.NoError(err)
	second, err := repo.List("bob")
	req.NoError(err)

	// Then both reads see the same content
	req.Len(first, 1)
	req.Equal(first, second)
}

func TestMailboxRepository_Mailboxes_Are_Isolated(t *testing.T) {
	req := require.New(t)
	repo := NewMailboxRepository(openTestDB(t), slog.Default())
	req.NoError(repo.Append("bob", domain.MailboxEntry{From: "a", Text: "for bob", At: time.Now()}))
	req.NoError(repo.Append("carol", domain.MailboxEntry{From: "a", Text: "for carol", At: time.Now()}))

	bob, err := repo.List("bob")
	req.NoError(err)
	carol, err := repo.List("carol")
	req.NoError(err)

	req.Len(bob, 1)
	req.Equal("for bob", bob[0].Text)
	req.Len(carol, 1)
	req.Equal("for carol", carol[0].Text)
}

func TestMailboxRepository_Empty_Mailbox(t *testing.T) {
	req := require.New(t)
	repo := NewMailboxRepository(openTestDB(t), slog.Default())

	entries, err := repo.List("nobody")

	req.NoError(err)
	req.Empty(entries)
}

func TestMailboxRepository_Same_Timestamp_Keeps_Both(t *testing.T) {
	req := require.New(t)
	repo := NewMailboxRepository(openTestDB(t), slog.Default())
	at := time.Now()

	req.NoError(repo.Append("bob", domain.MailboxEntry{From: "a", Text: "one", At: at}))
	req.NoError(repo.Append("bob", domain.MailboxEntry{From: "a", Text: "two", At: at}))

	entries, err := repo.List("bob")
	req.NoError(err)
	req.Len(entries, 2)
}
