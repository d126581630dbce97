package domain

// Inbound is an event the transport hands to the dispatcher, tagged with the
// sender identity. The dispatcher consumes them one at a time.
type Inbound interface {
	Sender() Identity
}

// CommandEvent is a slash command with pre-split arguments.
type CommandEvent struct {
	Name    string
	Args    []string
	From    Identity
	Channel ChannelID
}

func (e CommandEvent) Sender() Identity { return e.From }

// TextEvent is free text. RepliedTo carries the body of the relayed message
// this one replies to, when the transport knows it.
type TextEvent struct {
	Body      string
	From      Identity
	Channel   ChannelID
	RepliedTo string
}

func (e TextEvent) Sender() Identity { return e.From }

// ImageEvent references an image by opaque handle; the relay never sees bytes.
type ImageEvent struct {
	Ref     FileRef
	Caption string
	From    Identity
	Channel ChannelID
}

func (e ImageEvent) Sender() Identity { return e.From }

// CallbackEvent is a button press. Token is a pipe-delimited payload the
// relay itself issued; Message locates the prompt carrying the button so the
// handler can edit it in place.
type CallbackEvent struct {
	Token   string
	From    Identity
	Message Location
}

func (e CallbackEvent) Sender() Identity { return e.From }
