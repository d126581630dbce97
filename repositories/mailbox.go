//go:generate go run go.uber.org/mock/mockgen -source=mailbox.go -destination=../mocks/mock_mailbox_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"anonchat/domain"
)

type IMailboxRepository interface {
	Append(to domain.Identity, entry domain.MailboxEntry) error
	List(id domain.Identity) ([]domain.MailboxEntry, error)
}

// MailboxRepository stores direct messages in Badger. The database is opened
// in in-memory mode by the caller, so mailboxes vanish on restart like every
// other piece of relay state. Reading a mailbox never removes entries.
type MailboxRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMailboxRepository(db *badger.DB, log *slog.Logger) MailboxRepository {
	return MailboxRepository{db: db, log: log}
}

type mailRecord struct {
	From string `json:"from"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Append persists one entry. The key is "mail:{identity}:{timestamp_padded}:{uuid}":
// 19-digit zero padding keeps entries chronologically sorted under the prefix
// scan, and the UUID disconnects collisions within the same nanosecond.
func (m MailboxRepository) Append(to domain.Identity, entry domain.MailboxEntry) error {
	key := fmt.Sprintf("mail:%s:%019d:%s", to, entry.At.UnixNano(), uuid.New())
	bytes, err := json.Marshal(mailRecord{From: entry.From, Text: entry.Text, At: entry.At.UnixNano()})
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// List returns the full mailbox oldest-first without clearing it.
func (m MailboxRepository) List(id domain.Identity) ([]domain.MailboxEntry, error) {
	var entries []domain.MailboxEntry
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("mail:%s:", id))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec mailRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				entries = append(entries, domain.MailboxEntry{
					From: rec.From,
					Text: rec.Text,
					At:   time.Unix(0, rec.At).UTC(),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return entries, err
}
