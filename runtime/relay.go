package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"

	"anonchat/contract"
	"anonchat/domain"
	"anonchat/domain/event"
	"anonchat/errors"
	"anonchat/moderation"
	"anonchat/polls"
	"anonchat/repositories"
	"anonchat/runtime/workers"
)

// Relay implements every participant-facing operation over the registry,
// broadcaster, flow store, poll engine and repositories. All handlers reply
// to the requester directly and fan side effects out best-effort; no failure
// here is fatal to the process, and a failure in one participant's request
// never corrupts state visible to others.
type Relay struct {
	log        *slog.Logger
	transport  contract.Transport
	registry   *Registry
	broadcast  *Broadcaster
	flows      *FlowStore
	polls      *polls.Engine
	mailboxes  repositories.IMailboxRepository
	reports    repositories.IReportRepository
	index      *repositories.RosterIndex
	classifier moderation.Classifier
	notifier   *workers.Notifier
	events     chan event.DomainEvent
	capacity   int
	clock      func() time.Time
}

func NewRelay(
	log *slog.Logger,
	transport contract.Transport,
	registry *Registry,
	broadcast *Broadcaster,
	flows *FlowStore,
	engine *polls.Engine,
	mailboxes repositories.IMailboxRepository,
	reports repositories.IReportRepository,
	index *repositories.RosterIndex,
	classifier moderation.Classifier,
	notifier *workers.Notifier,
	events chan event.DomainEvent,
	capacity int,
) *Relay {
	return &Relay{
		log:        log,
		transport:  transport,
		registry:   registry,
		broadcast:  broadcast,
		flows:      flows,
		polls:      engine,
		mailboxes:  mailboxes,
		reports:    reports,
		index:      index,
		classifier: classifier,
		notifier:   notifier,
		events:     events,
		capacity:   capacity,
		clock:      time.Now,
	}
}

// emit never blocks a handler: observability loses an event under pressure
// rather than stalling the dispatch loop.
func (r *Relay) emit(evt event.DomainEvent) {
	select {
	case r.events <- evt:
	default:
		r.log.Warn("Event channel full, dropping event", "kind", evt.Kind())
	}
}

func (r *Relay) reply(ctx context.Context, ch domain.ChannelID, text string) {
	if _, err := r.transport.SendText(ctx, ch, text); err != nil {
		r.log.Warn("Reply delivery failed", "channel", ch, "err", err)
	}
}

// requireSession replies with the standard hint when the identity is not in
// the chat.
func (r *Relay) requireSession(ctx context.Context, id domain.Identity, ch domain.ChannelID) (domain.Session, bool) {
	s, ok := r.registry.Lookup(id)
	if !ok {
		r.reply(ctx, ch, "[Bot] You are not in the chat. Type /start to join.")
	}
	return s, ok
}

func (r *Relay) replyUnknownCode(ctx context.Context, ch domain.ChannelID, code string) {
	r.log.Debug("Code lookup failed", "code", code, "err", errors.ErrUnknownCode)
	r.reply(ctx, ch, "[Bot] No participant carries that code.")
}

// Join activates the identity, announces it to everyone already in and
// indexes the session for /search. Joining while active is idempotent.
func (r *Relay) Join(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	res := r.registry.Join(id, ch)
	if res.AlreadyActive {
		r.reply(ctx, ch, fmt.Sprintf(
			"[Bot] You are already in the chat as «%s». Type /stop to leave.", res.Session.Pseudonym))
		return
	}

	if err := r.index.Index(res.Session); err != nil {
		r.log.Warn("Indexing session failed", "pseudonym", res.Session.Pseudonym, "err", err)
	}

	r.reply(ctx, ch, fmt.Sprintf(
		"[Bot] Welcome to the anonymous support chat!\nYour pseudonym: %s\nYour code: %s\nType /stop to leave.\nEnjoy!",
		res.Session.Pseudonym, res.Session.Code))

	announcement := fmt.Sprintf("[System] %s %s joined the chat. New participant!", res.Session.Code, res.Session.Pseudonym)
	if res.Rejoined {
		announcement = fmt.Sprintf("[System] %s %s is back in the chat.", res.Session.Code, res.Session.Pseudonym)
	}
	r.broadcast.Text(ctx, announcement, id)

	r.emit(event.ParticipantJoined{
		Code: res.Session.Code, Pseudonym: res.Session.Pseudonym, Visits: res.Visits, At: r.clock(),
	})
}

// Leave removes the session, records the departure and announces it.
func (r *Relay) Leave(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	exit, err := r.registry.Leave(id)
	if err != nil {
		r.reply(ctx, ch, "[Bot] You are not in the chat. Type /start to join.")
		return
	}
	r.flows.Abort(id)
	if err := r.index.Remove(id); err != nil {
		r.log.Warn("Removing session from index failed", "pseudonym", exit.Pseudonym, "err", err)
	}

	r.reply(ctx, ch, "[Bot] You left the chat. Come back soon!")
	r.broadcast.Text(ctx, fmt.Sprintf("[System] %s %s left the chat.", exit.Code, exit.Pseudonym), id)

	r.emit(event.ParticipantLeft{Code: exit.Code, Pseudonym: exit.Pseudonym, At: exit.At})
}

// BeginRename starts the nickname flow.
func (r *Relay) BeginRename(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingName})
	r.reply(ctx, ch, fmt.Sprintf("[Bot] Enter a new nickname (%d characters max):", domain.MaxNicknameLen))
}

// CompleteRename applies the pending nickname change and announces it.
func (r *Relay) CompleteRename(ctx context.Context, id domain.Identity, ch domain.ChannelID, name string) {
	name = strings.TrimSpace(name)
	old, err := r.registry.Rename(id, name)
	switch err {
	case nil:
	case errors.ErrNameTooLong:
		r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingName})
		r.reply(ctx, ch, "[Bot] That nickname is too long. Try again.")
		return
	default:
		r.reply(ctx, ch, "[Bot] You already left the chat.")
		return
	}

	s, _ := r.registry.Lookup(id)
	if err := r.index.Index(s); err != nil {
		r.log.Warn("Reindexing session failed", "pseudonym", name, "err", err)
	}

	r.reply(ctx, ch, fmt.Sprintf("[Bot] Nickname changed to %s.", name))
	r.broadcast.Text(ctx, fmt.Sprintf("[System] %s %s is now known as %s.", s.Code, old, name), "")

	r.emit(event.NicknameChanged{Code: s.Code, OldName: old, NewName: name, At: r.clock()})
}

// Roster sends the /list display.
func (r *Relay) Roster(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	entries := r.registry.Roster()
	if len(entries) == 0 {
		r.reply(ctx, ch, "[Bot] Nobody is in the chat yet.")
		return
	}
	lines := lo.Map(entries, func(e domain.RosterEntry, _ int) string {
		return fmt.Sprintf("%s [%s] %s %s", e.Tier.Icon(), e.Role, e.Code, e.Pseudonym)
	})
	r.reply(ctx, ch, fmt.Sprintf("[Bot] %d in the chat (of %d):\n%s",
		len(entries), r.capacity, strings.Join(lines, "\n")))
	r.registry.Touch(id)
}

// StatsReply sends the /stats counters.
func (r *Relay) StatsReply(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	total, active := r.registry.Counts()
	r.reply(ctx, ch, fmt.Sprintf("[Bot] Chat stats:\nTotal participants: %d\nActive now: %d", total, active))
	r.registry.Touch(id)
}

var repliedNickname = regexp.MustCompile(`^(.+?):\s`)

// extractRepliedNickname pulls the speaker out of a relayed body of the form
// "Nickname: text".
func extractRepliedNickname(body string) string {
	if m := repliedNickname.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// RelayText fans a chat message out to everyone else. A leading '%' renders
// the message in the third person; replies to relayed messages carry an
// "(in reply to …)" annotation.
func (r *Relay) RelayText(ctx context.Context, e domain.TextEvent) {
	s, ok := r.requireSession(ctx, e.From, e.Channel)
	if !ok {
		return
	}

	body := strings.TrimSpace(e.Body)
	replied := extractRepliedNickname(e.RepliedTo)

	var text string
	if rest, thirdPerson := strings.CutPrefix(body, "%"); thirdPerson {
		rest = strings.TrimLeft(rest, " ")
		if replied != "" {
			text = fmt.Sprintf("%s (in reply to %s) %s", s.Pseudonym, replied, rest)
		} else {
			text = fmt.Sprintf("%s %s", s.Pseudonym, rest)
		}
	} else {
		if replied != "" {
			text = fmt.Sprintf("%s (in reply to %s): %s", s.Pseudonym, replied, body)
		} else {
			text = fmt.Sprintf("%s: %s", s.Pseudonym, body)
		}
	}

	report := r.broadcast.Text(ctx, text, e.From)
	r.registry.Touch(e.From)
	r.emit(event.MessageRelayed{
		Code:      s.Code,
		Pseudonym: s.Pseudonym,
		Lang:      moderation.DetectLang(body),
		Delivered: report.Delivered,
		Failed:    report.Failed,
		At:        r.clock(),
	})
}

// RelayImage fans an image out with an attribution caption.
func (r *Relay) RelayImage(ctx context.Context, e domain.ImageEvent) {
	s, ok := r.requireSession(ctx, e.From, e.Channel)
	if !ok {
		return
	}
	caption := fmt.Sprintf("%s %s sent a photo", s.Code, s.Pseudonym)
	if e.Caption != "" {
		caption += "\n" + e.Caption
	}
	report := r.broadcast.Image(ctx, e.Ref, caption, e.From)
	r.registry.Touch(e.From)
	r.emit(event.ImageRelayed{
		Code: s.Code, Pseudonym: s.Pseudonym,
		Delivered: report.Delivered, Failed: report.Failed, At: r.clock(),
	})
}

// DirectOneShot handles "/msg CODE text…" without entering the flow.
func (r *Relay) DirectOneShot(ctx context.Context, id domain.Identity, ch domain.ChannelID, code, text string) {
	from, ok := r.requireSession(ctx, id, ch)
	if !ok {
		return
	}
	target, ok := r.registry.FindByCode(code)
	if !ok {
		r.replyUnknownCode(ctx, ch, code)
		return
	}
	r.deliverDirect(from, target, text)
	r.reply(ctx, ch, fmt.Sprintf("[Bot] Message sent to %s.", target.Code))
	r.registry.Touch(id)
}

// BeginDirect presents every other active session as a selectable recipient.
func (r *Relay) BeginDirect(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	candidates := lo.Filter(r.registry.Snapshot(), func(s domain.Session, _ int) bool {
		return s.Identity != id
	})
	kb := domain.PickerKeyboard(candidates, func(s domain.Session) string {
		return fmt.Sprintf("%s|%s", domain.TokenDMSelect, s.Identity)
	}, domain.TokenDMCancel)

	loc, err := r.transport.SendKeyboard(ctx, ch, "[Bot] Pick a recipient for your direct message:", kb)
	if err != nil {
		r.log.Warn("Recipient picker delivery failed", "err", err)
		return
	}
	r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingRecipient, Prompt: loc})
	r.registry.Touch(id)
}

// SelectDirectTarget moves the flow to awaiting the message body.
func (r *Relay) SelectDirectTarget(ctx context.Context, e domain.CallbackEvent, target domain.Identity) {
	flow, ok := r.flows.Expect(e.From, domain.FlowAwaitingRecipient)
	if !ok {
		return
	}
	targetSession, active := r.registry.Lookup(target)
	if !active {
		r.log.Debug("Direct target selection failed", "err", errors.ErrRecipientGone)
		r.editPrompt(ctx, flow.Prompt, e.Message, "[Bot] That recipient already left the chat.")
		return
	}
	r.flows.Begin(e.From, domain.Flow{Kind: domain.FlowAwaitingBody, Recipient: target, Prompt: flow.Prompt})
	r.editPrompt(ctx, flow.Prompt, e.Message,
		fmt.Sprintf("[Bot] Write your message for %s %s:", targetSession.Code, targetSession.Pseudonym))
}

// CompleteDirect delivers the composed body to the chosen recipient.
func (r *Relay) CompleteDirect(ctx context.Context, id domain.Identity, ch domain.ChannelID, body string) {
	flow, ok := r.flows.Expect(id, domain.FlowAwaitingBody)
	if !ok {
		r.reply(ctx, ch, "[Bot] No recipient selected.")
		return
	}
	from, ok := r.requireSession(ctx, id, ch)
	if !ok {
		return
	}
	target, active := r.registry.Lookup(flow.Recipient)
	if !active {
		r.log.Debug("Direct delivery failed", "err", errors.ErrRecipientGone)
		r.reply(ctx, ch, "[Bot] That recipient already left the chat.")
		return
	}
	r.deliverDirect(from, target, body)
	r.reply(ctx, ch, fmt.Sprintf("[Bot] Message sent to %s %s.", target.Code, target.Pseudonym))
	r.registry.Touch(id)
}

// CancelDirect aborts the flow from the picker's cancel button.
func (r *Relay) CancelDirect(ctx context.Context, e domain.CallbackEvent) {
	flow, _ := r.flows.Abort(e.From)
	r.editPrompt(ctx, flow.Prompt, e.Message, "Direct message cancelled.")
}

// deliverDirect appends to the mailbox and queues a live alert; the alert
// honors the recipient's mute and interval preferences in the notifier.
func (r *Relay) deliverDirect(from, target domain.Session, text string) {
	err := r.mailboxes.Append(target.Identity, domain.MailboxEntry{
		From: from.Pseudonym, Text: text, At: r.clock(),
	})
	if err != nil {
		r.log.Warn("Mailbox append failed", "recipient", target.Pseudonym, "err", err)
	}
	alerted := !r.registry.Prefs(target.Identity).MutePrivates
	r.notifier.Enqueue(workers.Alert{
		To:      target.Identity,
		Channel: target.Channel,
		Text:    fmt.Sprintf("[DM from %s]: %s", from.Pseudonym, text),
	})
	r.emit(event.DirectDelivered{From: from.Pseudonym, ToCode: target.Code, Alerted: alerted, At: r.clock()})
}

// Drain sends the full mailbox without clearing it.
func (r *Relay) Drain(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	entries, err := r.mailboxes.List(id)
	if err != nil {
		r.log.Warn("Mailbox read failed", "identity", id, "err", err)
		return
	}
	if len(entries) == 0 {
		r.reply(ctx, ch, "[Bot] You have no messages.")
		return
	}
	lines := lo.Map(entries, func(e domain.MailboxEntry, _ int) string {
		return fmt.Sprintf("From %s: %s", e.From, e.Text)
	})
	r.reply(ctx, ch, "[Bot] Direct messages:\n\n"+strings.Join(lines, "\n"))
	r.registry.Touch(id)
}

// HugByCode handles "/hug CODE"; the announcement is broadcast to every
// active session except those muting hug alerts.
func (r *Relay) HugByCode(ctx context.Context, id domain.Identity, ch domain.ChannelID, code string) {
	from, ok := r.requireSession(ctx, id, ch)
	if !ok {
		return
	}
	target, ok := r.registry.FindByCode(code)
	if !ok {
		r.replyUnknownCode(ctx, ch, code)
		return
	}
	r.announceHug(ctx, from, target)
	r.registry.Touch(id)
}

// BeginHug presents the hug-target picker.
func (r *Relay) BeginHug(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	candidates := lo.Filter(r.registry.Snapshot(), func(s domain.Session, _ int) bool {
		return s.Identity != id
	})
	kb := domain.PickerKeyboard(candidates, func(s domain.Session) string {
		return fmt.Sprintf("%s|%s", domain.TokenHugSelect, s.Identity)
	}, domain.TokenHugCancel)

	loc, err := r.transport.SendKeyboard(ctx, ch, "[Bot] Pick somebody to hug:", kb)
	if err != nil {
		r.log.Warn("Hug picker delivery failed", "err", err)
		return
	}
	r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingHugTarget, Prompt: loc})
	r.registry.Touch(id)
}

// SelectHugTarget resolves the picker choice and announces the hug.
func (r *Relay) SelectHugTarget(ctx context.Context, e domain.CallbackEvent, target domain.Identity) {
	flow, ok := r.flows.Expect(e.From, domain.FlowAwaitingHugTarget)
	if !ok {
		return
	}
	from, active := r.registry.Lookup(e.From)
	if !active {
		return
	}
	targetSession, active := r.registry.Lookup(target)
	if !active {
		r.editPrompt(ctx, flow.Prompt, e.Message, "[Bot] That participant already left the chat.")
		return
	}
	r.announceHug(ctx, from, targetSession)
	r.editPrompt(ctx, flow.Prompt, e.Message, "Hug sent!")
	r.registry.Touch(e.From)
}

// CancelHug aborts the flow from the picker's cancel button.
func (r *Relay) CancelHug(ctx context.Context, e domain.CallbackEvent) {
	flow, _ := r.flows.Abort(e.From)
	r.editPrompt(ctx, flow.Prompt, e.Message, "Hug cancelled.")
}

func (r *Relay) announceHug(ctx context.Context, from, target domain.Session) {
	text := fmt.Sprintf("[System] %s %s hugged %s!", from.Code, from.Pseudonym, target.Pseudonym)
	r.broadcast.TextWhere(ctx, text, func(s domain.Session) bool {
		return !r.registry.Prefs(s.Identity).MuteHugs
	})
	r.emit(event.HugSent{ActorCode: from.Code, Actor: from.Pseudonym, Target: target.Pseudonym, At: r.clock()})
}

// Search matches active pseudonyms against the term.
func (r *Relay) Search(ctx context.Context, id domain.Identity, ch domain.ChannelID, term string) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	if strings.TrimSpace(term) == "" {
		r.reply(ctx, ch, "[Bot] Usage: /search <text>")
		return
	}
	hits, err := r.index.Search(ctx, term, r.capacity)
	if err != nil {
		r.log.Warn("Roster search failed", "term", term, "err", err)
		r.reply(ctx, ch, "[Bot] No matches found.")
		return
	}
	if len(hits) == 0 {
		r.reply(ctx, ch, "[Bot] No matches found.")
	} else {
		lines := lo.Map(hits, func(h repositories.RosterHit, _ int) string {
			return h.Code + " " + h.Pseudonym
		})
		r.reply(ctx, ch, "[Bot] Found:\n"+strings.Join(lines, "\n"))
	}
	r.registry.Touch(id)
}

// BeginPoll starts the poll-composition flow.
func (r *Relay) BeginPoll(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingPollBody})
	r.reply(ctx, ch,
		"[Bot] Creating a poll.\nSend the question and the options, one per line.\nExample:\nHow is it going?\nGood\nFine\n/cancel to abort.")
	r.registry.Touch(id)
}

// CompletePoll parses the composition, replaces any prior poll by the same
// creator and delivers a copy with voting controls to every active session.
func (r *Relay) CompletePoll(ctx context.Context, id domain.Identity, ch domain.ChannelID, body string) {
	creator, ok := r.requireSession(ctx, id, ch)
	if !ok {
		return
	}
	input, err := domain.ParsePollInput(body)
	if err != nil {
		r.flows.Begin(id, domain.Flow{Kind: domain.FlowAwaitingPollBody})
		r.reply(ctx, ch, "[Bot] A poll needs a question and at least one option. Try again or /cancel.")
		return
	}
	copies := r.polls.Open(ctx, creator, input, r.registry.Snapshot())
	r.registry.Touch(id)
	r.emit(event.PollOpened{CreatorCode: creator.Code, Question: input.Question, Copies: copies, At: r.clock()})
}

// VotePoll applies a vote coming from a pollvote callback.
func (r *Relay) VotePoll(ctx context.Context, e domain.CallbackEvent, creator domain.Identity, oneBasedOption int) {
	err := r.polls.Vote(ctx, creator, oneBasedOption, e.From)
	if err != nil {
		if voter, active := r.registry.Lookup(e.From); active {
			switch err {
			case errors.ErrPollClosed:
				r.reply(ctx, voter.Channel, "[Bot] That poll is closed.")
			case errors.ErrPollNotFound:
				r.reply(ctx, voter.Channel, "[Bot] That poll no longer exists.")
			case errors.ErrInvalidOption:
				r.reply(ctx, voter.Channel, "[Bot] That option does not exist.")
			}
		}
		return
	}
	if creatorSession, ok := r.registry.Lookup(creator); ok {
		r.emit(event.PollVoted{CreatorCode: creatorSession.Code, Option: oneBasedOption, At: r.clock()})
	}
	r.registry.Touch(e.From)
}

// FinalizePoll closes the requester's poll and strips controls everywhere.
func (r *Relay) FinalizePoll(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if err := r.polls.Finalize(ctx, id); err != nil {
		r.reply(ctx, ch, "[Bot] You have no open poll.")
		return
	}
	r.reply(ctx, ch, "[Bot] Poll closed.")
	r.registry.Touch(id)
	if s, ok := r.registry.Lookup(id); ok {
		r.emit(event.PollClosed{CreatorCode: s.Code, At: r.clock()})
	}
}

// NotifyMenu sends the notification-settings keyboard.
func (r *Relay) NotifyMenu(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.requireSession(ctx, id, ch); !ok {
		return
	}
	kb := notifyKeyboard(r.registry.Prefs(id))
	if _, err := r.transport.SendKeyboard(ctx, ch, "[Bot] Notification settings:", kb); err != nil {
		r.log.Warn("Notify menu delivery failed", "err", err)
	}
	r.registry.Touch(id)
}

// NotifyToggle flips one mute flag and refreshes the menu in place.
func (r *Relay) NotifyToggle(ctx context.Context, e domain.CallbackEvent, flag string) {
	prefs := r.registry.UpdatePrefs(e.From, func(p *domain.NotifyPrefs) {
		switch flag {
		case "privates":
			p.MutePrivates = !p.MutePrivates
		case "replies":
			p.MuteReplies = !p.MuteReplies
		case "hug":
			p.MuteHugs = !p.MuteHugs
		}
	})
	r.refreshNotifyMenu(ctx, e.Message, prefs)
	r.registry.Touch(e.From)
}

// NotifyInterval selects the alert flush interval.
func (r *Relay) NotifyInterval(ctx context.Context, e domain.CallbackEvent, minutes int) {
	if !lo.Contains(domain.NotifyIntervals, minutes) {
		return
	}
	prefs := r.registry.UpdatePrefs(e.From, func(p *domain.NotifyPrefs) {
		p.IntervalMin = minutes
	})
	r.refreshNotifyMenu(ctx, e.Message, prefs)
	r.registry.Touch(e.From)
}

// NotifyCancel removes the settings menu.
func (r *Relay) NotifyCancel(ctx context.Context, e domain.CallbackEvent) {
	if err := r.transport.Delete(ctx, e.Message); err != nil {
		r.log.Debug("Deleting notify menu failed", "err", err)
	}
}

func (r *Relay) refreshNotifyMenu(ctx context.Context, loc domain.Location, prefs domain.NotifyPrefs) {
	kb := notifyKeyboard(prefs)
	if err := r.transport.EditKeyboard(ctx, loc, &kb); err != nil {
		r.log.Debug("Refreshing notify menu failed", "err", err)
	}
}

// notifyKeyboard renders toggles as enabled-alert checkmarks: a flag shows ✅
// while the alert is on, ❌ once muted.
func notifyKeyboard(prefs domain.NotifyPrefs) domain.Keyboard {
	onOff := func(muted bool) string {
		if muted {
			return "❌"
		}
		return "✅"
	}
	kb := domain.Keyboard{Rows: [][]domain.Button{{
		{Label: onOff(prefs.MutePrivates) + " Privates", Token: domain.TokenNotify + "|privates"},
		{Label: onOff(prefs.MuteReplies) + " Replies", Token: domain.TokenNotify + "|replies"},
		{Label: onOff(prefs.MuteHugs) + " Hugs", Token: domain.TokenNotify + "|hug"},
	}}}
	var row []domain.Button
	for _, v := range domain.NotifyIntervals {
		mark := "❌"
		if prefs.IntervalMin == v {
			mark = "✅"
		}
		row = append(row, domain.Button{
			Label: fmt.Sprintf("%s %d", mark, v),
			Token: fmt.Sprintf("%s|%s|%d", domain.TokenNotify, domain.TokenNotifyInterval, v),
		})
	}
	kb.Rows = append(kb.Rows, row)
	kb.Rows = append(kb.Rows, []domain.Button{{
		Label: "❌ Cancel", Token: domain.TokenNotify + "|" + domain.TokenNotifyCancel,
	}})
	return kb
}

// FileReport records a moderation report against an active participant's
// code. Reports are recorded, never acted upon here.
func (r *Relay) FileReport(ctx context.Context, id domain.Identity, ch domain.ChannelID, code, reason string) {
	reporter, ok := r.requireSession(ctx, id, ch)
	if !ok {
		return
	}
	if err := (domain.ReportInput{Code: code, Reason: reason}).Validate(); err != nil {
		r.reply(ctx, ch, "[Bot] Usage: /report <code> <reason>")
		return
	}
	offender, ok := r.registry.FindByCode(code)
	if !ok {
		r.replyUnknownCode(ctx, ch, code)
		return
	}

	report := domain.Report{
		Reporter: reporter.Pseudonym,
		Offender: offender.Pseudonym,
		Reason:   reason,
		Tags:     r.classifier.Tags(reason),
		At:       r.clock(),
	}
	if err := r.reports.Append(report); err != nil {
		r.log.Warn("Report append failed", "err", err)
	}
	r.reply(ctx, ch, "[Bot] Your report has been recorded.")
	r.emit(event.ReportFiled{Reporter: report.Reporter, Offender: report.Offender, Tags: report.Tags, At: report.At})
	r.registry.Touch(id)
}

// CancelFlow is the explicit /cancel acknowledgement.
func (r *Relay) CancelFlow(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	if _, ok := r.flows.Abort(id); !ok {
		r.log.Debug("Cancel without a flow", "identity", id, "err", errors.ErrNoPendingFlow)
		r.reply(ctx, ch, "[Bot] Nothing to cancel.")
		return
	}
	r.reply(ctx, ch, "[Bot] Cancelled.")
}

// AbortFlow silently abandons a pending flow; the dispatcher calls it when
// an unrelated command interrupts an interaction.
func (r *Relay) AbortFlow(id domain.Identity) {
	r.flows.Abort(id)
}

func (r *Relay) editPrompt(ctx context.Context, prompt, fallback domain.Location, text string) {
	loc := prompt
	if loc == (domain.Location{}) {
		loc = fallback
	}
	if err := r.transport.EditText(ctx, loc, text, nil); err != nil {
		r.log.Debug("Editing prompt failed", "err", err)
	}
}

// Help, Rules, About and Ping are fixed replies.
func (r *Relay) Help(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	r.reply(ctx, ch, helpText)
	r.registry.Touch(id)
}

func (r *Relay) Rules(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	r.reply(ctx, ch, rulesText)
	r.registry.Touch(id)
}

func (r *Relay) About(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	r.reply(ctx, ch, "[Bot] An anonymous relay chat with private messages, polls and hugs. Enjoy!")
	r.registry.Touch(id)
}

func (r *Relay) Ping(ctx context.Context, id domain.Identity, ch domain.ChannelID) {
	r.reply(ctx, ch, "Pong!")
	r.registry.Touch(id)
}

const helpText = "[Bot] Available commands:\n\n" +
	"/start - Join the chat\n" +
	"/stop - Leave the chat\n" +
	"/nick - Change your nickname\n" +
	"/list - Who is in the chat\n" +
	"/stats - Chat statistics\n" +
	"/msg - Send a direct message\n" +
	"/getmsg - Read your direct messages\n" +
	"/hug - Hug a participant\n" +
	"/search - Search by nickname\n" +
	"/poll - Create a poll\n" +
	"/polldone - Close your poll\n" +
	"/notify - Notification settings\n" +
	"/report - Report a participant\n" +
	"/ping - Check the bot\n" +
	"/rules - Chat rules\n" +
	"/about - About the bot\n" +
	"/help - This message\n\n" +
	"Start a message with % to speak in the third person."

const rulesText = "[Bot] Chat rules:\n\n" +
	"1. Keep a respectful tone and a friendly atmosphere.\n" +
	"2. No insults, spam or profanity.\n" +
	"3. No advertising, flooding or external links.\n" +
	"4. Cyrillic-script conversation only.\n" +
	"5. Moderators may take action on violations.\n\n" +
	"Violations are reviewed. Be kind!"
