package transport

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"anonchat/domain"
	"anonchat/services"
)

// Feeder turns input lines into inbound events. One line per action:
//
//	alice> /msg #ABCD hello    command with arguments
//	alice> hello everyone      chat text
//	alice* pollvote|u1|2       press a button (token as rendered by Console)
//	alice! pic.jpg sunset      send an image with an optional caption
//
// The identity doubles as the channel: every participant talks to the relay
// over their own private channel.
type Feeder struct {
	log     *slog.Logger
	in      io.Reader
	chat    *services.ChatService
	console *Console
}

func NewFeeder(log *slog.Logger, in io.Reader, chat *services.ChatService, console *Console) *Feeder {
	return &Feeder{log: log, in: in, chat: chat, console: console}
}

func (f *Feeder) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(f.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if e, ok := f.parse(scanner.Text()); ok {
			f.chat.Submit(e)
		}
	}
	return scanner.Err()
}

func (f *Feeder) parse(line string) (domain.Inbound, bool) {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, ">*!")
	if idx <= 0 {
		return nil, false
	}
	id := domain.Identity(strings.TrimSpace(line[:idx]))
	ch := domain.ChannelID(id)
	rest := strings.TrimSpace(line[idx+1:])

	switch line[idx] {
	case '*':
		loc, ok := f.console.LastKeyboard(ch)
		if !ok {
			f.log.Warn("No keyboard to press", "identity", id)
			return nil, false
		}
		return domain.CallbackEvent{Token: rest, From: id, Message: loc}, true
	case '!':
		ref, caption, _ := strings.Cut(rest, " ")
		return domain.ImageEvent{
			Ref: domain.FileRef(ref), Caption: strings.TrimSpace(caption), From: id, Channel: ch,
		}, true
	}

	if cmd, ok := strings.CutPrefix(rest, "/"); ok {
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			return nil, false
		}
		return domain.CommandEvent{
			Name: strings.ToLower(fields[0]), Args: fields[1:], From: id, Channel: ch,
		}, true
	}
	return domain.TextEvent{Body: rest, From: id, Channel: ch}, true
}
