package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"anonchat/domain"
	"anonchat/mocks"
)

func prefsFor(p domain.NotifyPrefs) func(domain.Identity) domain.NotifyPrefs {
	return func(domain.Identity) domain.NotifyPrefs { return p }
}

func TestNotifier_Muted_Recipient_Gets_Nothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)
	// No SendText expected at all

	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.NotifyPrefs{MutePrivates: true}), 4, time.Second)

	notifier.accept(context.Background(), Alert{To: "bob", Channel: "ch-bob", Text: "[DM from a]: hi"})
	notifier.flushDue(context.Background())
}

func TestNotifier_Interval_Zero_Sends_Immediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		SendText(gomock.Any(), domain.ChannelID("ch-bob"), "[DM from a]: hi").
		Return(domain.Location{}, nil).
		Times(1)

	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.NotifyPrefs{IntervalMin: 0}), 4, time.Second)

	notifier.accept(context.Background(), Alert{To: "bob", Channel: "ch-bob", Text: "[DM from a]: hi"})
}

func TestNotifier_Default_Prefs_Deliver_Immediately(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().
		SendText(gomock.Any(), domain.ChannelID("ch-bob"), "[DM from a]: hi").
		Return(domain.Location{}, nil).
		Times(1)

	// A recipient who never changed their settings gets the alert at once
	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.DefaultNotifyPrefs()), 4, time.Second)

	notifier.accept(context.Background(), Alert{To: "bob", Channel: "ch-bob", Text: "[DM from a]: hi"})
	req.Empty(notifier.pending)
}

func TestNotifier_Batches_Until_Interval_Elapses(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)

	now := time.Now()
	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.NotifyPrefs{IntervalMin: 5}), 4, time.Second)
	notifier.clock = func() time.Time { return now }

	// Given two alerts queued within the interval
	notifier.accept(context.Background(), Alert{To: "bob", Channel: "ch-bob", Text: "first"})
	notifier.accept(context.Background(), Alert{To: "bob", Channel: "ch-bob", Text: "second"})

	// When a flush happens before the interval elapsed, nothing goes out
	notifier.flushDue(context.Background())

	// When the interval elapses, both alerts leave as one message
	transport.EXPECT().
		SendText(gomock.Any(), domain.ChannelID("ch-bob"), "first\nsecond").
		Return(domain.Location{}, nil).
		Times(1)
	now = now.Add(5*time.Minute + time.Second)
	notifier.flushDue(context.Background())

	// And the batch is gone
	notifier.flushDue(context.Background())
	req.Empty(notifier.pending)
}

func TestNotifier_Enqueue_Drops_When_Full(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)

	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.NotifyPrefs{}), 1, time.Second)

	// A full buffer drops instead of blocking
	notifier.Enqueue(Alert{To: "bob", Channel: "ch-bob", Text: "one"})
	notifier.Enqueue(Alert{To: "bob", Channel: "ch-bob", Text: "two"})
	req.Len(notifier.alerts, 1)
}

func TestNotifier_Run_Delivers_Enqueued_Alerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	transport := mocks.NewMockTransport(ctrl)

	delivered := make(chan struct{})
	transport.EXPECT().
		SendText(gomock.Any(), domain.ChannelID("ch-bob"), "[DM from a]: hi").
		DoAndReturn(func(context.Context, domain.ChannelID, string) (domain.Location, error) {
			close(delivered)
			return domain.Location{}, nil
		}).
		Times(1)

	notifier := NewNotifier(slog.Default(), transport,
		prefsFor(domain.NotifyPrefs{IntervalMin: 0}), 4, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = notifier.Run(ctx) }()

	notifier.Enqueue(Alert{To: "bob", Channel: "ch-bob", Text: "[DM from a]: hi"})

	select {
	case <-delivered:
	case <-time.After(time.Second):
		require.Fail(t, "alert was not delivered")
	}
}
