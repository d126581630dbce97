package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"anonchat/domain"
)

// fakeTransport records every delivery and can be told to fail for chosen
// channels.
type fakeTransport struct {
	mu      sync.Mutex
	nextID  int64
	sent    []sentMessage
	edits   []sentMessage
	deleted []domain.Location
	failFor map[domain.ChannelID]bool
}

type sentMessage struct {
	Channel  domain.ChannelID
	Text     string
	Keyboard *domain.Keyboard
	Location domain.Location
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{failFor: make(map[domain.ChannelID]bool)}
}

func (f *fakeTransport) record(ch domain.ChannelID, text string, kb *domain.Keyboard) (domain.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[ch] {
		return domain.Location{}, fmt.Errorf("channel %s unreachable", ch)
	}
	f.nextID++
	loc := domain.Location{Channel: ch, MessageID: f.nextID}
	f.sent = append(f.sent, sentMessage{Channel: ch, Text: text, Keyboard: kb, Location: loc})
	return loc, nil
}

func (f *fakeTransport) SendText(_ context.Context, ch domain.ChannelID, text string) (domain.Location, error) {
	return f.record(ch, text, nil)
}

func (f *fakeTransport) SendKeyboard(_ context.Context, ch domain.ChannelID, text string, kb domain.Keyboard) (domain.Location, error) {
	return f.record(ch, text, &kb)
}

func (f *fakeTransport) SendImage(_ context.Context, ch domain.ChannelID, ref domain.FileRef, caption string) (domain.Location, error) {
	return f.record(ch, fmt.Sprintf("image:%s %s", ref, caption), nil)
}

func (f *fakeTransport) EditText(_ context.Context, loc domain.Location, text string, kb *domain.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[loc.Channel] {
		return fmt.Errorf("channel %s unreachable", loc.Channel)
	}
	f.edits = append(f.edits, sentMessage{Channel: loc.Channel, Text: text, Keyboard: kb, Location: loc})
	return nil
}

func (f *fakeTransport) EditKeyboard(_ context.Context, loc domain.Location, kb *domain.Keyboard) error {
	return f.EditText(context.Background(), loc, "", kb)
}

func (f *fakeTransport) Delete(_ context.Context, loc domain.Location) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, loc)
	return nil
}

func (f *fakeTransport) sentTo(ch domain.ChannelID) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.Channel == ch {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) lastTo(ch domain.ChannelID) (sentMessage, bool) {
	msgs := f.sentTo(ch)
	if len(msgs) == 0 {
		return sentMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

func (f *fakeTransport) countContaining(needle string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.sent {
		if strings.Contains(m.Text, needle) {
			n++
		}
	}
	return n
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.edits = nil
	f.deleted = nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}
