//go:generate go run go.uber.org/mock/mockgen -source=report.go -destination=../mocks/mock_report_repository.go -package=mocks
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

type IReportRepository interface {
	Append(report domain.Report) error
	List() ([]domain.Report, error)
}

// ReportRepository is the append-only moderation log. The relay only writes;
// reading is for the debug server and admin tooling.
type ReportRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewReportRepository(db *badger.DB, log *slog.Logger) ReportRepository {
	return ReportRepository{db: db, log: log}
}

type reportRecord struct {
	Reporter string   `json:"reporter"`
	Offender string   `json:"offender"`
	Reason   string   `json:"reason"`
	Tags     []string `json:"tags,omitempty"`
	At       int64    `json:"at"`
}

func (r ReportRepository) Append(report domain.Report) error {
	key := fmt.Sprintf("report:%019d:%s", report.At.UnixNano(), uuid.New())
	bytes, err := json.Marshal(reportRecord{
		Reporter: report.Reporter,
		Offender: report.Offender,
		Reason:   report.Reason,
		Tags:     report.Tags,
		At:       report.At.UnixNano(),
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// List returns every filed report oldest-first.
func (r ReportRepository) List() ([]domain.Report, error) {
	var reports []domain.Report
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("report:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec reportRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				reports = append(reports, domain.Report{
					Reporter: rec.Reporter,
					Offender: rec.Offender,
					Reason:   rec.Reason,
					Tags:     rec.Tags,
					At:       time.Unix(0, rec.At).UTC(),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return reports, err
}
