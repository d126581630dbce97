package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"anonchat/domain"
	"anonchat/observability"
	"anonchat/repositories"
	"anonchat/runtime"
	"anonchat/services"
)

func newTestChat(t *testing.T) (*services.ChatService, *runtime.Registry, repositories.IReportRepository) {
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := runtime.NewRegistry(domain.NewGenerator(1), nil)
	reports := repositories.NewReportRepository(db, slog.Default())
	chat := services.NewChatService(nil, registry, reports, observability.NewStats(slog.Default()))
	return chat, registry, reports
}

func TestDebugServer_Liveness_Root_Answers(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newTestChat(t)
	srv := httptest.NewServer(debugMux(slog.Default(), chat))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/")

	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
}

func TestDebugServer_Roster_Renders_Active_Sessions(t *testing.T) {
	req := require.New(t)
	chat, registry, _ := newTestChat(t)
	res := registry.Join("alice", "ch-alice")
	srv := httptest.NewServer(debugMux(slog.Default(), chat))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/roster")
	req.NoError(err)
	defer resp.Body.Close()

	var entries []struct {
		Code      string `json:"code"`
		Pseudonym string `json:"pseudonym"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&entries))
	req.Len(entries, 1)
	req.Equal(res.Session.Code, entries[0].Code)
	req.Equal(res.Session.Pseudonym, entries[0].Pseudonym)
}

func TestDebugServer_Reports_Empty_Is_A_List(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newTestChat(t)
	srv := httptest.NewServer(debugMux(slog.Default(), chat))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/reports")
	req.NoError(err)
	defer resp.Body.Close()

	var reports []domain.Report
	req.NoError(json.NewDecoder(resp.Body).Decode(&reports))
	req.NotNil(reports)
	req.Empty(reports)
}

func TestDebugServer_Reports_Lists_Filed_Reports(t *testing.T) {
	req := require.New(t)
	chat, _, repo := newTestChat(t)
	req.NoError(repo.Append(domain.Report{
		Reporter: "🆔AbCdEf",
		Offender: "🆔GhIjKl",
		Reason:   "spam in every message",
		Tags:     []string{"spam"},
		At:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}))
	srv := httptest.NewServer(debugMux(slog.Default(), chat))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/reports")
	req.NoError(err)
	defer resp.Body.Close()

	var reports []domain.Report
	req.NoError(json.NewDecoder(resp.Body).Decode(&reports))
	req.Len(reports, 1)
	req.Equal("🆔GhIjKl", reports[0].Offender)
}

func TestStartDebugServer_Returns_Without_Blocking(t *testing.T) {
	req := require.New(t)
	chat, _, _ := newTestChat(t)

	done := make(chan struct{})
	go func() {
		StartDebugServer(slog.Default(), chat, "localhost", 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("debug server start blocked the caller")
	}
}
