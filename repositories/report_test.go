package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"anonchat/domain"
)

func TestReportRepository_Append_And_List(t *testing.T) {
	req := require.New(t)
	repo := NewReportRepository(openTestDB(t), slog.Default())
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	req.NoError(repo.Append(domain.Report{
		Reporter: "🆔AbCdEf",
		Offender: "🆔GhIjKl",
		Reason:   "spam in every message",
		Tags:     []string{"spam"},
		At:       at,
	}))

	reports, err := repo.List()

	req.NoError(err)
	req.Len(reports, 1)
	req.Equal("🆔GhIjKl", reports[0].Offender)
	req.Equal([]string{"spam"}, reports[0].Tags)
	req.Equal(at, reports[0].At)
}

func TestReportRepository_List_Oldest_First(t *testing.T) {
	req := require.New(t)
	repo := NewReportRepository(openTestDB(t), slog.Default())
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, reason := range []string{"first", "second", "third"} {
		req.NoError(repo.Append(domain.Report{
			Reporter: "a", Offender: "b", Reason: reason,
			At: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	reports, err := repo.List()

	req.NoError(err)
	req.Len(reports, 3)
	req.Equal("first", reports[0].Reason)
	req.Equal("third", reports[2].Reason)
}

func TestReportRepository_Append_Only(t *testing.T) {
	req := require.New(t)
	repo := NewReportRepository(openTestDB(t), slog.Default())
	req.NoError(repo.Append(domain.Report{Reporter: "a", Offender: "b", Reason: "spam", At: time.Now()}))

	// Listing repeatedly never consumes the log
	for i := 0; i < 2; i++ {
		reports, err := repo.List()
		req.NoError(err)
		req.Len(reports, 1)
	}
}
