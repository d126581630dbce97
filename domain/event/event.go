// Package event defines the domain events the relay core emits. Events feed
// in-process sinks (logs, stats projections); they are observability side
// effects, never part of the delivery path itself.
package event

import "time"

type DomainEvent interface {
	Kind() string
}

type ParticipantJoined struct {
	Code      string
	Pseudonym string
	Visits    int
	At        time.Time
}

func (ParticipantJoined) Kind() string { return "participant_joined" }

type ParticipantLeft struct {
	Code      string
	Pseudonym string
	At        time.Time
}

func (ParticipantLeft) Kind() string { return "participant_left" }

type NicknameChanged struct {
	Code    string
	OldName string
	NewName string
	At      time.Time
}

func (NicknameChanged) Kind() string { return "nickname_changed" }

// MessageRelayed is emitted per fan-out of a text message. Lang is the
// detected ISO 639-1 code of the body, informational only.
type MessageRelayed struct {
	Code      string
	Pseudonym string
	Lang      string
	Delivered int
	Failed    int
	At        time.Time
}

func (MessageRelayed) Kind() string { return "message_relayed" }

type ImageRelayed struct {
	Code      string
	Pseudonym string
	Delivered int
	Failed    int
	At        time.Time
}

func (ImageRelayed) Kind() string { return "image_relayed" }

type HugSent struct {
	ActorCode string
	Actor     string
	Target    string
	At        time.Time
}

func (HugSent) Kind() string { return "hug_sent" }

type DirectDelivered struct {
	From    string
	ToCode  string
	Alerted bool
	At      time.Time
}

func (DirectDelivered) Kind() string { return "direct_delivered" }

type PollOpened struct {
	CreatorCode string
	Question    string
	Copies      int
	At          time.Time
}

func (PollOpened) Kind() string { return "poll_opened" }

type PollVoted struct {
	CreatorCode string
	Option      int
	At          time.Time
}

func (PollVoted) Kind() string { return "poll_voted" }

type PollClosed struct {
	CreatorCode string
	At          time.Time
}

func (PollClosed) Kind() string { return "poll_closed" }

type ReportFiled struct {
	Reporter string
	Offender string
	Tags     []string
	At       time.Time
}

func (ReportFiled) Kind() string { return "report_filed" }
