package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"anonchat/domain"
	"anonchat/observability"
)

func newTestBroadcaster(transport *fakeTransport) (*Broadcaster, *Registry) {
	log := testLogger()
	registry := newTestRegistry()
	return NewBroadcaster(log, transport, registry, observability.NewStats(log)), registry
}

func TestBroadcaster_Excludes_The_Sender(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	broadcaster, registry := newTestBroadcaster(transport)
	registry.Join("alice", "ch-alice")
	registry.Join("bob", "ch-bob")
	registry.Join("carol", "ch-carol")

	// When broadcasting on alice's behalf
	report := broadcaster.Text(context.Background(), "hello", "alice")

	// Then everyone but alice receives a copy
	req.Equal(2, report.Delivered)
	req.Zero(report.Failed)
	req.Empty(transport.sentTo("ch-alice"))
	req.Len(transport.sentTo("ch-bob"), 1)
	req.Len(transport.sentTo("ch-carol"), 1)
}

func TestBroadcaster_Partial_Failure_Continues(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	broadcaster, registry := newTestBroadcaster(transport)
	registry.Join("alice", "ch-alice")
	registry.Join("bob", "ch-bob")
	registry.Join("carol", "ch-carol")

	// Given bob's channel is unreachable
	transport.failFor["ch-bob"] = true

	report := broadcaster.Text(context.Background(), "hello", "")

	// Then the failure is counted and the remaining copies still go out
	req.Equal(2, report.Delivered)
	req.Equal(1, report.Failed)
	req.Len(transport.sentTo("ch-alice"), 1)
	req.Len(transport.sentTo("ch-carol"), 1)
}

func TestBroadcaster_TextWhere_Filters_Destinations(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	broadcaster, registry := newTestBroadcaster(transport)
	registry.Join("alice", "ch-alice")
	registry.Join("bob", "ch-bob")

	report := broadcaster.TextWhere(context.Background(), "only for bob", func(s domain.Session) bool {
		return s.Identity == "bob"
	})

	req.Equal(1, report.Delivered)
	req.Empty(transport.sentTo("ch-alice"))
	req.Len(transport.sentTo("ch-bob"), 1)
}

func TestBroadcaster_Image_Carries_Ref_And_Caption(t *testing.T) {
	req := require.New(t)
	transport := newFakeTransport()
	broadcaster, registry := newTestBroadcaster(transport)
	registry.Join("alice", "ch-alice")
	registry.Join("bob", "ch-bob")

	report := broadcaster.Image(context.Background(), "pic.jpg", "sunset", "alice")

	req.Equal(1, report.Delivered)
	msg, ok := transport.lastTo("ch-bob")
	req.True(ok)
	req.Contains(msg.Text, "pic.jpg")
	req.Contains(msg.Text, "sunset")
}
