// Package domain contains core concepts of the anonymous relay chat.
// This file defines participant identity, profiles and live sessions.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Identity is the opaque stable value the transport attaches to a participant.
type Identity string

// ChannelID identifies the destination a payload is delivered to.
type ChannelID string

// FileRef is an opaque handle to an image held by the transport.
type FileRef string

// MaxNicknameLen bounds a chosen pseudonym, counted in runes.
const MaxNicknameLen = 15

// RecentExitCap bounds the recent-exit ring.
const RecentExitCap = 20

// Profile survives leave/rejoin for the whole process lifetime.
type Profile struct {
	Pseudonym string
	Code      string
	Visits    int
}

// Session exists only while the participant is in the chat. Pseudonym and
// Code are copies taken at join time; a mid-session rename updates both the
// session and the profile, the code never changes.
type Session struct {
	Identity   Identity
	Pseudonym  string
	Code       string
	Channel    ChannelID
	LastActive time.Time
}

// RecentExit records one departure, displayed most-recent-first.
type RecentExit struct {
	Pseudonym string
	Code      string
	At        time.Time
}

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleNewbie    Role = "newbie"
	RoleRegular   Role = "regular"
)

// ActivityTier buckets elapsed time since a session's last activity.
// Buckets are display-only but must stay monotonic and total.
type ActivityTier int

const (
	TierLive ActivityTier = iota
	TierRecent
	TierIdle
	TierAway
	TierDormant
)

var tierIcons = [...]string{"🌕", "🌖", "🌗", "🌘", "🌑"}

func TierOf(elapsed time.Duration) ActivityTier {
	switch {
	case elapsed < time.Minute:
		return TierLive
	case elapsed < 5*time.Minute:
		return TierRecent
	case elapsed < 15*time.Minute:
		return TierIdle
	case elapsed < 30*time.Minute:
		return TierAway
	default:
		return TierDormant
	}
}

func (t ActivityTier) Icon() string {
	if t < TierLive || t > TierDormant {
		return tierIcons[TierDormant]
	}
	return tierIcons[t]
}

// RosterEntry is one line of the /list display.
type RosterEntry struct {
	Tier      ActivityTier
	Role      Role
	Code      string
	Pseudonym string
}

// NotifyPrefs holds per-participant alert opt-outs plus the flush interval,
// in minutes, for batched direct-message alerts. The MuteReplies toggle is
// recorded but has no enforcement point: a reply reaches its target through
// the ordinary room broadcast, so there is nothing extra to suppress.
type NotifyPrefs struct {
	MutePrivates bool
	MuteReplies  bool
	MuteHugs     bool
	IntervalMin  int
}

// NotifyIntervals are the selectable flush intervals, in minutes.
var NotifyIntervals = []int{0, 1, 5, 10, 20, 30}

// DefaultNotifyPrefs: every alert on, delivered immediately. Batching only
// starts once a participant picks a non-zero interval themselves.
func DefaultNotifyPrefs() NotifyPrefs {
	return NotifyPrefs{IntervalMin: 0}
}

// MailboxEntry is one received direct message.
type MailboxEntry struct {
	From string
	Text string
	At   time.Time
}

// Report is one filed moderation report. Tags are matched abuse terms,
// attached for admin tooling; nothing in the relay acts on them.
type Report struct {
	Reporter string
	Offender string
	Reason   string
	Tags     []string
	At       time.Time
}
