package runtime

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"anonchat/domain"
	"anonchat/errors"
)

// Dispatcher is the single writer over chat state: every inbound event is
// consumed off one queue and handled to completion before the next, so
// handlers never race each other.
type Dispatcher struct {
	log   *slog.Logger
	relay *Relay
	inbox chan domain.Inbound
}

func NewDispatcher(log *slog.Logger, relay *Relay, buffer int) *Dispatcher {
	return &Dispatcher{
		log:   log,
		relay: relay,
		inbox: make(chan domain.Inbound, buffer),
	}
}

// Submit queues an inbound event, dropping it when the queue is saturated.
func (d *Dispatcher) Submit(e domain.Inbound) {
	select {
	case d.inbox <- e:
	default:
		d.log.Warn("Inbound queue full, dropping event", "sender", e.Sender())
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-d.inbox:
			d.handle(ctx, e)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, e domain.Inbound) {
	switch e := e.(type) {
	case domain.CommandEvent:
		d.handleCommand(ctx, e)
	case domain.TextEvent:
		d.handleText(ctx, e)
	case domain.ImageEvent:
		d.relay.RelayImage(ctx, e)
	case domain.CallbackEvent:
		d.handleCallback(ctx, e)
	default:
		d.log.Warn("Unknown inbound event", "sender", e.Sender())
	}
}

// normalizeCode accepts codes typed with or without the leading '#'.
func normalizeCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return raw
	}
	return "#" + raw
}

func (d *Dispatcher) handleCommand(ctx context.Context, e domain.CommandEvent) {
	// Any command other than /cancel abandons a pending interaction; /cancel
	// acknowledges the abort explicitly.
	if e.Name != "cancel" {
		d.relay.AbortFlow(e.From)
	}

	switch e.Name {
	case "start":
		d.relay.Join(ctx, e.From, e.Channel)
	case "stop":
		d.relay.Leave(ctx, e.From, e.Channel)
	case "nick":
		d.relay.BeginRename(ctx, e.From, e.Channel)
	case "list":
		d.relay.Roster(ctx, e.From, e.Channel)
	case "stats":
		d.relay.StatsReply(ctx, e.From, e.Channel)
	case "msg":
		if len(e.Args) >= 2 {
			d.relay.DirectOneShot(ctx, e.From, e.Channel,
				normalizeCode(e.Args[0]), strings.Join(e.Args[1:], " "))
		} else {
			d.relay.BeginDirect(ctx, e.From, e.Channel)
		}
	case "getmsg":
		d.relay.Drain(ctx, e.From, e.Channel)
	case "hug":
		if len(e.Args) >= 1 {
			d.relay.HugByCode(ctx, e.From, e.Channel, normalizeCode(e.Args[0]))
		} else {
			d.relay.BeginHug(ctx, e.From, e.Channel)
		}
	case "search":
		d.relay.Search(ctx, e.From, e.Channel, strings.Join(e.Args, " "))
	case "poll":
		d.relay.BeginPoll(ctx, e.From, e.Channel)
	case "polldone":
		d.relay.FinalizePoll(ctx, e.From, e.Channel)
	case "notify":
		d.relay.NotifyMenu(ctx, e.From, e.Channel)
	case "report":
		var code, reason string
		if len(e.Args) >= 1 {
			code = normalizeCode(e.Args[0])
		}
		if len(e.Args) >= 2 {
			reason = strings.Join(e.Args[1:], " ")
		}
		d.relay.FileReport(ctx, e.From, e.Channel, code, reason)
	case "cancel":
		d.relay.CancelFlow(ctx, e.From, e.Channel)
	case "help":
		d.relay.Help(ctx, e.From, e.Channel)
	case "rules":
		d.relay.Rules(ctx, e.From, e.Channel)
	case "about":
		d.relay.About(ctx, e.From, e.Channel)
	case "ping":
		d.relay.Ping(ctx, e.From, e.Channel)
	default:
		d.log.Debug("Unknown command", "name", e.Name, "sender", e.From)
	}
}

// handleText completes whichever flow is waiting for free text; with no such
// flow pending the text is an ordinary chat message. Picker flows wait for a
// button, not text, so they leave the message to be relayed untouched.
func (d *Dispatcher) handleText(ctx context.Context, e domain.TextEvent) {
	switch d.relay.flows.Current(e.From).Kind {
	case domain.FlowAwaitingName:
		d.relay.flows.Expect(e.From, domain.FlowAwaitingName)
		d.relay.CompleteRename(ctx, e.From, e.Channel, e.Body)
	case domain.FlowAwaitingBody:
		d.relay.CompleteDirect(ctx, e.From, e.Channel, e.Body)
	case domain.FlowAwaitingPollBody:
		d.relay.flows.Expect(e.From, domain.FlowAwaitingPollBody)
		d.relay.CompletePoll(ctx, e.From, e.Channel, e.Body)
	default:
		d.relay.RelayText(ctx, e)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, e domain.CallbackEvent) {
	parts := strings.Split(e.Token, "|")
	switch parts[0] {
	case domain.TokenDMSelect:
		if len(parts) == 2 {
			d.relay.SelectDirectTarget(ctx, e, domain.Identity(parts[1]))
			return
		}
	case domain.TokenDMCancel:
		d.relay.CancelDirect(ctx, e)
		return
	case domain.TokenHugSelect:
		if len(parts) == 2 {
			d.relay.SelectHugTarget(ctx, e, domain.Identity(parts[1]))
			return
		}
	case domain.TokenHugCancel:
		d.relay.CancelHug(ctx, e)
		return
	case domain.TokenPollVote:
		if len(parts) == 3 {
			if option, err := strconv.Atoi(parts[2]); err == nil {
				d.relay.VotePoll(ctx, e, domain.Identity(parts[1]), option)
				return
			}
		}
	case domain.TokenNotify:
		if d.handleNotifyCallback(ctx, e, parts[1:]) {
			return
		}
	}
	d.log.Warn("Callback rejected", "token", e.Token, "err", errors.ErrBadToken)
}

func (d *Dispatcher) handleNotifyCallback(ctx context.Context, e domain.CallbackEvent, parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	switch parts[0] {
	case domain.TokenNotifyCancel:
		d.relay.NotifyCancel(ctx, e)
	case domain.TokenNotifyInterval:
		if len(parts) != 2 {
			return false
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return false
		}
		d.relay.NotifyInterval(ctx, e, minutes)
	case "privates", "replies", "hug":
		d.relay.NotifyToggle(ctx, e, parts[0])
	default:
		return false
	}
	return true
}
