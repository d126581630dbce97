package sink

import (
	"context"
	"log/slog"

	"anonchat/domain/event"
)

// LogSink writes every domain event to the structured log.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Consume(_ context.Context, evt event.DomainEvent) error {
	switch e := evt.(type) {
	case event.ParticipantJoined:
		s.log.Info("Participant joined", "code", e.Code, "pseudonym", e.Pseudonym, "visits", e.Visits)
	case event.ParticipantLeft:
		s.log.Info("Participant left", "code", e.Code, "pseudonym", e.Pseudonym)
	case event.NicknameChanged:
		s.log.Info("Nickname changed", "code", e.Code, "old", e.OldName, "new", e.NewName)
	case event.MessageRelayed:
		s.log.Info("Message relayed",
			"code", e.Code, "lang", e.Lang, "delivered", e.Delivered, "failed", e.Failed)
	case event.ImageRelayed:
		s.log.Info("Image relayed", "code", e.Code, "delivered", e.Delivered, "failed", e.Failed)
	case event.HugSent:
		s.log.Info("Hug sent", "actor", e.ActorCode, "target", e.Target)
	case event.DirectDelivered:
		s.log.Info("Direct message delivered", "to", e.ToCode, "alerted", e.Alerted)
	case event.PollOpened:
		s.log.Info("Poll opened", "creator", e.CreatorCode, "copies", e.Copies)
	case event.PollVoted:
		s.log.Info("Poll vote", "creator", e.CreatorCode, "option", e.Option)
	case event.PollClosed:
		s.log.Info("Poll closed", "creator", e.CreatorCode)
	case event.ReportFiled:
		s.log.Info("Report filed", "offender", e.Offender, "tags", e.Tags)
	default:
		s.log.Debug("Domain event", "kind", evt.Kind())
	}
	return nil
}
