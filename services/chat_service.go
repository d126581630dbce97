package services

import (
	"anonchat/domain"
	"anonchat/observability"
	"anonchat/repositories"
	"anonchat/runtime"
)

// ChatService is the read/submit facade the outer surfaces use: transports
// submit inbound events, the debug server reads projections.
type ChatService struct {
	dispatcher *runtime.Dispatcher
	registry   *runtime.Registry
	reports    repositories.IReportRepository
	stats      *observability.Stats
}

func NewChatService(
	dispatcher *runtime.Dispatcher,
	registry *runtime.Registry,
	reports repositories.IReportRepository,
	stats *observability.Stats,
) *ChatService {
	return &ChatService{
		dispatcher: dispatcher,
		registry:   registry,
		reports:    reports,
		stats:      stats,
	}
}

// Submit hands an inbound event to the dispatch queue.
func (s *ChatService) Submit(e domain.Inbound) {
	s.dispatcher.Submit(e)
}

// Roster returns the live participant display.
func (s *ChatService) Roster() []domain.RosterEntry {
	return s.registry.Roster()
}

// RecentExits returns the most recent departures, newest first.
func (s *ChatService) RecentExits() []domain.RecentExit {
	return s.registry.RecentExits()
}

// Reports returns every filed moderation report.
func (s *ChatService) Reports() ([]domain.Report, error) {
	return s.reports.List()
}

// Stats returns the counter snapshot including process resource usage.
func (s *ChatService) Stats() map[string]any {
	return s.stats.Snapshot()
}
