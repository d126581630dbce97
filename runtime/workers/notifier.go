package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"anonchat/contract"
	"anonchat/domain"
)

// Alert is one pending direct-message notification.
type Alert struct {
	To      domain.Identity
	Channel domain.ChannelID
	Text    string
}

type batch struct {
	channel domain.ChannelID
	texts   []string
	due     time.Time
}

// Notifier delivers direct-message alerts honoring each recipient's
// notification preferences: muted recipients get nothing, interval 0 is
// immediate, anything else batches alerts and flushes them once the
// interval has elapsed since the first queued alert.
type Notifier struct {
	log       *slog.Logger
	transport contract.Transport
	prefs     func(domain.Identity) domain.NotifyPrefs
	alerts    chan Alert
	tick      time.Duration
	pending   map[domain.Identity]*batch
	clock     func() time.Time
}

func NewNotifier(log *slog.Logger, transport contract.Transport,
	prefs func(domain.Identity) domain.NotifyPrefs, buffer int, tick time.Duration) *Notifier {
	return &Notifier{
		log:       log,
		transport: transport,
		prefs:     prefs,
		alerts:    make(chan Alert, buffer),
		tick:      tick,
		pending:   make(map[domain.Identity]*batch),
		clock:     time.Now,
	}
}

// Enqueue never blocks the dispatcher; if the buffer is full the alert is
// dropped, matching the best-effort delivery contract.
func (w *Notifier) Enqueue(a Alert) {
	select {
	case w.alerts <- a:
	default:
		w.log.Warn("Alert buffer full, dropping notification", "recipient", a.To)
	}
}

func (w *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping notifier")
			return nil
		case a := <-w.alerts:
			w.accept(ctx, a)
		case <-ticker.C:
			w.flushDue(ctx)
		}
	}
}

func (w *Notifier) accept(ctx context.Context, a Alert) {
	prefs := w.prefs(a.To)
	if prefs.MutePrivates {
		return
	}
	if prefs.IntervalMin == 0 {
		w.send(ctx, a.Channel, a.Text)
		return
	}
	b, ok := w.pending[a.To]
	if !ok {
		b = &batch{
			channel: a.Channel,
			due:     w.clock().Add(time.Duration(prefs.IntervalMin) * time.Minute),
		}
		w.pending[a.To] = b
	}
	b.channel = a.Channel
	b.texts = append(b.texts, a.Text)
}

func (w *Notifier) flushDue(ctx context.Context) {
	now := w.clock()
	for id, b := range w.pending {
		if b.due.After(now) {
			continue
		}
		delete(w.pending, id)
		w.send(ctx, b.channel, strings.Join(b.texts, "\n"))
	}
}

func (w *Notifier) send(ctx context.Context, ch domain.ChannelID, text string) {
	if _, err := w.transport.SendText(ctx, ch, text); err != nil {
		w.log.Warn("Alert delivery failed", "channel", ch, "err", err)
	}
}
