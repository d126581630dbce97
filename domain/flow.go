package domain

// FlowKind tags the per-participant interactive state. A participant is in at
// most one flow at a time; FlowNone means no interaction is pending.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowAwaitingName
	FlowAwaitingRecipient
	FlowAwaitingBody
	FlowAwaitingHugTarget
	FlowAwaitingPollBody
)

func (k FlowKind) String() string {
	switch k {
	case FlowNone:
		return "none"
	case FlowAwaitingName:
		return "awaiting-name"
	case FlowAwaitingRecipient:
		return "awaiting-recipient"
	case FlowAwaitingBody:
		return "awaiting-body"
	case FlowAwaitingHugTarget:
		return "awaiting-hug-target"
	case FlowAwaitingPollBody:
		return "awaiting-poll-body"
	default:
		return "unknown"
	}
}

// Flow is the tagged variant stored per participant. Recipient is set only in
// FlowAwaitingBody; Prompt locates the picker message so it can be edited.
type Flow struct {
	Kind      FlowKind
	Recipient Identity
	Prompt    Location
}

// ConsumesText reports whether free text advances this flow instead of being
// relayed to the room.
func (f Flow) ConsumesText() bool {
	switch f.Kind {
	case FlowAwaitingName, FlowAwaitingBody, FlowAwaitingPollBody:
		return true
	default:
		return false
	}
}
