package sink

import (
	"context"

	"anonchat/domain/event"
	"anonchat/observability"
)

// StatsSink projects domain events onto the process counters.
type StatsSink struct {
	stats *observability.Stats
}

func NewStatsSink(stats *observability.Stats) *StatsSink {
	return &StatsSink{stats: stats}
}

func (s *StatsSink) Consume(_ context.Context, evt event.DomainEvent) error {
	switch evt.(type) {
	case event.ParticipantJoined:
		s.stats.IncrJoins()
	case event.ParticipantLeft:
		s.stats.IncrLeaves()
	case event.NicknameChanged:
		s.stats.IncrRenames()
	case event.MessageRelayed, event.ImageRelayed:
		s.stats.IncrRelayed()
	case event.DirectDelivered:
		s.stats.IncrDirect()
	case event.HugSent:
		s.stats.IncrHugs()
	case event.PollVoted:
		s.stats.IncrPollVotes()
	case event.ReportFiled:
		s.stats.IncrReports()
	}
	return nil
}
