package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"anonchat/domain"
	"anonchat/services"
)

// StartDebugServer exposes read-only projections over HTTP: a liveness root,
// counters, the live roster, recent exits and filed reports. It never mutates
// chat state. The listener runs on its own goroutine so the caller can keep
// wiring the process while the debug surface already answers.
func StartDebugServer(log *slog.Logger, chat *services.ChatService, host string, port int) {
	mux := debugMux(log, chat)

	address := fmt.Sprintf("%s:%d", host, port)
	go func() {
		log.Info("Starting debug server", "address", address)
		if err := http.ListenAndServe(address, mux); err != nil {
			log.Error("Debug server stopped", "err", err)
		}
	}()
}

func debugMux(log *slog.Logger, chat *services.ChatService) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "I'm alive and up!")
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, chat.Stats())
	})

	mux.HandleFunc("/roster", func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Code      string `json:"code"`
			Pseudonym string `json:"pseudonym"`
			Role      string `json:"role"`
			Tier      string `json:"tier"`
		}
		entries := chat.Roster()
		out := make([]entry, 0, len(entries))
		for _, e := range entries {
			out = append(out, entry{
				Code:      e.Code,
				Pseudonym: e.Pseudonym,
				Role:      string(e.Role),
				Tier:      e.Tier.Icon(),
			})
		}
		writeJSON(w, log, out)
	})

	mux.HandleFunc("/exits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, chat.RecentExits())
	})

	mux.HandleFunc("/reports", func(w http.ResponseWriter, r *http.Request) {
		reports, err := chat.Reports()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if reports == nil {
			reports = []domain.Report{}
		}
		writeJSON(w, log, reports)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("Encoding debug payload failed", "err", err)
	}
}
