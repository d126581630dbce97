package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gookit/color"

	"anonchat/domain"
)

var channelPalette = []color.Color{
	color.FgCyan, color.FgGreen, color.FgYellow, color.FgMagenta, color.FgBlue, color.FgLightCyan,
}

// Console renders deliveries to stdout, one colored line per destination
// channel. It also remembers the last keyboard location per channel so a
// feeder can resolve button presses.
type Console struct {
	log *slog.Logger

	mu        sync.Mutex
	nextID    int64
	keyboards map[domain.Location]domain.Keyboard
	lastKb    map[domain.ChannelID]domain.Location
}

func NewConsole(log *slog.Logger) *Console {
	return &Console{
		log:       log,
		keyboards: make(map[domain.Location]domain.Keyboard),
		lastKb:    make(map[domain.ChannelID]domain.Location),
	}
}

func (c *Console) allocate(ch domain.ChannelID) domain.Location {
	c.nextID++
	return domain.Location{Channel: ch, MessageID: c.nextID}
}

func paint(ch domain.ChannelID) color.Color {
	var sum int
	for _, r := range string(ch) {
		sum += int(r)
	}
	return channelPalette[sum%len(channelPalette)]
}

func (c *Console) print(ch domain.ChannelID, text string) {
	prefix := paint(ch).Sprintf("→ %-10s │", ch)
	for _, line := range strings.Split(text, "\n") {
		fmt.Printf("%s %s\n", prefix, line)
	}
}

func (c *Console) printKeyboard(ch domain.ChannelID, kb domain.Keyboard) {
	prefix := paint(ch).Sprintf("→ %-10s │", ch)
	for _, row := range kb.Rows {
		var cells []string
		for _, b := range row {
			cells = append(cells, fmt.Sprintf("[%s ~%s]", b.Label, b.Token))
		}
		fmt.Printf("%s %s\n", prefix, color.OpItalic.Sprint(strings.Join(cells, " ")))
	}
}

func (c *Console) SendText(_ context.Context, ch domain.ChannelID, text string) (domain.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loc := c.allocate(ch)
	c.print(ch, text)
	return loc, nil
}

func (c *Console) SendKeyboard(_ context.Context, ch domain.ChannelID, text string, kb domain.Keyboard) (domain.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loc := c.allocate(ch)
	c.keyboards[loc] = kb
	c.lastKb[ch] = loc
	c.print(ch, text)
	c.printKeyboard(ch, kb)
	return loc, nil
}

func (c *Console) SendImage(_ context.Context, ch domain.ChannelID, ref domain.FileRef, caption string) (domain.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loc := c.allocate(ch)
	c.print(ch, fmt.Sprintf("🖼 %s\n%s", ref, caption))
	return loc, nil
}

func (c *Console) EditText(_ context.Context, loc domain.Location, text string, kb *domain.Keyboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.print(loc.Channel, fmt.Sprintf("✎ #%d %s", loc.MessageID, text))
	if kb == nil {
		delete(c.keyboards, loc)
		return nil
	}
	c.keyboards[loc] = *kb
	c.lastKb[loc.Channel] = loc
	c.printKeyboard(loc.Channel, *kb)
	return nil
}

func (c *Console) EditKeyboard(_ context.Context, loc domain.Location, kb *domain.Keyboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kb == nil {
		delete(c.keyboards, loc)
		c.print(loc.Channel, fmt.Sprintf("✎ #%d (controls removed)", loc.MessageID))
		return nil
	}
	c.keyboards[loc] = *kb
	c.lastKb[loc.Channel] = loc
	c.printKeyboard(loc.Channel, *kb)
	return nil
}

func (c *Console) Delete(_ context.Context, loc domain.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keyboards, loc)
	c.print(loc.Channel, fmt.Sprintf("✕ #%d deleted", loc.MessageID))
	return nil
}

// LastKeyboard reports where the most recent keyboard for the channel lives.
func (c *Console) LastKeyboard(ch domain.ChannelID) (domain.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loc, ok := c.lastKb[ch]
	return loc, ok
}
