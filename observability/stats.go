package observability

import (
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats aggregates relay counters for the debug endpoint. Counters are
// atomic so sinks and workers can bump them without coordination.
type Stats struct {
	log *slog.Logger

	Joins            uint64
	Leaves           uint64
	Renames          uint64
	MessagesRelayed  uint64
	Deliveries       uint64
	DeliveryFailures uint64
	DirectMessages   uint64
	Hugs             uint64
	PollVotes        uint64
	Reports          uint64

	startedAt time.Time
}

func NewStats(log *slog.Logger) *Stats {
	return &Stats{log: log, startedAt: time.Now().UTC()}
}

func (s *Stats) IncrJoins() { atomic.AddUint64(&s.Joins, 1) }
func (s *Stats) IncrLeaves() { atomic.AddUint64(&s.Leaves, 1) }
func (s *Stats) IncrRenames() { atomic.AddUint64(&s.Renames, 1) }
func (s *Stats) IncrRelayed() { atomic.AddUint64(&s.MessagesRelayed, 1) }
func (s *Stats) IncrDirect() { atomic.AddUint64(&s.DirectMessages, 1) }
func (s *Stats) IncrHugs() { atomic.AddUint64(&s.Hugs, 1) }
func (s *Stats) IncrPollVotes() { atomic.AddUint64(&s.PollVotes, 1) }
func (s *Stats) IncrReports() { atomic.AddUint64(&s.Reports, 1) }

func (s *Stats) AddDeliveries(delivered, failed int) {
	atomic.AddUint64(&s.Deliveries, uint64(delivered))
	atomic.AddUint64(&s.DeliveryFailures, uint64(failed))
}

// Snapshot returns the counters plus live process metrics for the debug
// server's stats provider.
func (s *Stats) Snapshot() map[string]any {
	snap := map[string]any{
		"started_at":        s.startedAt.Format(time.RFC3339),
		"joins":             atomic.LoadUint64(&s.Joins),
		"leaves":            atomic.LoadUint64(&s.Leaves),
		"renames":           atomic.LoadUint64(&s.Renames),
		"messages_relayed":  atomic.LoadUint64(&s.MessagesRelayed),
		"deliveries":        atomic.LoadUint64(&s.Deliveries),
		"delivery_failures": atomic.LoadUint64(&s.DeliveryFailures),
		"direct_messages":   atomic.LoadUint64(&s.DirectMessages),
		"hugs":              atomic.LoadUint64(&s.Hugs),
		"poll_votes":        atomic.LoadUint64(&s.PollVotes),
		"reports":           atomic.LoadUint64(&s.Reports),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.log.Debug("Error while retrieving own process", "err", err)
		return snap
	}
	if cpu, err := p.CPUPercent(); err == nil {
		snap["cpu_percent"] = cpu
	}
	if mem, err := p.MemoryInfo(); err == nil {
		snap["rss_mb"] = mem.RSS / 1024 / 1024
	}
	return snap
}
