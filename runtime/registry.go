// Package runtime owns the live relay state and the event plumbing around
// it: the session registry, the broadcast fan-out, per-participant flows and
// the inbound dispatcher. It holds no transport code and no domain rules
// beyond wiring them together.
package runtime

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"anonchat/domain"
	"anonchat/errors"
)

// Registry maps identities to live sessions and process-lifetime profiles.
// All fields are guarded by one mutex; every mutation happens between
// suspension points, fan-out loops take Snapshot() first.
type Registry struct {
	mu         sync.RWMutex
	gen        *domain.Generator
	clock      func() time.Time
	profiles   map[domain.Identity]*domain.Profile
	sessions   map[domain.Identity]*domain.Session
	prefs      map[domain.Identity]*domain.NotifyPrefs
	exits      []domain.RecentExit
	admins     map[domain.Identity]struct{}
	moderators map[domain.Identity]struct{}
}

func NewRegistry(gen *domain.Generator, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		gen:        gen,
		clock:      clock,
		profiles:   make(map[domain.Identity]*domain.Profile),
		sessions:   make(map[domain.Identity]*domain.Session),
		prefs:      make(map[domain.Identity]*domain.NotifyPrefs),
		admins:     make(map[domain.Identity]struct{}),
		moderators: make(map[domain.Identity]struct{}),
	}
}

// Grant marks identities as admins or moderators for role classification.
func (r *Registry) Grant(admins, moderators []domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range admins {
		r.admins[id] = struct{}{}
	}
	for _, id := range moderators {
		r.moderators[id] = struct{}{}
	}
}

// JoinResult reports what Join did. AlreadyActive means the call was an
// idempotent no-op apart from the activity refresh.
type JoinResult struct {
	Session       domain.Session
	Visits        int
	Rejoined      bool
	AlreadyActive bool
}

// Join activates the identity. First-ever joiners get a fresh pseudonym and a
// code unique among all profiles; returning profiles keep both and bump the
// visit count. Joining while already active only refreshes last-activity.
func (r *Registry) Join(id domain.Identity, ch domain.ChannelID) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.LastActive = r.clock()
		return JoinResult{Session: *s, Visits: r.profiles[id].Visits, AlreadyActive: true}
	}

	profile, seen := r.profiles[id]
	if seen {
		profile.Visits++
	} else {
		profile = &domain.Profile{
			Pseudonym: r.gen.Pseudonym(),
			Code:      r.gen.UniqueCode(r.codeTaken),
			Visits:    1,
		}
		r.profiles[id] = profile
	}
	if _, ok := r.prefs[id]; !ok {
		prefs := domain.DefaultNotifyPrefs()
		r.prefs[id] = &prefs
	}

	session := &domain.Session{
		Identity:   id,
		Pseudonym:  profile.Pseudonym,
		Code:       profile.Code,
		Channel:    ch,
		LastActive: r.clock(),
	}
	r.sessions[id] = session
	return JoinResult{Session: *session, Visits: profile.Visits, Rejoined: seen}
}

// codeTaken must be called with the lock held; UniqueCode only runs inside Join.
func (r *Registry) codeTaken(code string) bool {
	for _, p := range r.profiles {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Leave deactivates the identity and pushes a capped recent-exit record.
// The profile is untouched.
func (r *Registry) Leave(id domain.Identity) (domain.RecentExit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.RecentExit{}, errors.ErrNotInChat
	}
	delete(r.sessions, id)

	exit := domain.RecentExit{Pseudonym: s.Pseudonym, Code: s.Code, At: r.clock()}
	r.exits = append([]domain.RecentExit{exit}, r.exits...)
	if len(r.exits) > domain.RecentExitCap {
		r.exits = r.exits[:domain.RecentExitCap]
	}
	return exit, nil
}

// Rename updates both the session and the profile pseudonym. The code stays.
func (r *Registry) Rename(id domain.Identity, newName string) (string, error) {
	if err := (domain.RenameInput{Name: newName}).Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return "", errors.ErrNotInChat
	}
	old := s.Pseudonym
	s.Pseudonym = newName
	s.LastActive = r.clock()
	r.profiles[id].Pseudonym = newName
	return old, nil
}

// Touch refreshes last-activity; no-op when not active.
func (r *Registry) Touch(id domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.LastActive = r.clock()
	}
}

// RoleOf classifies without mutating. Unregistered identities are newbies.
func (r *Registry) RoleOf(id domain.Identity) domain.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.admins[id]; ok {
		return domain.RoleAdmin
	}
	if _, ok := r.moderators[id]; ok {
		return domain.RoleModerator
	}
	if p, ok := r.profiles[id]; ok && p.Visits > 1 {
		return domain.RoleRegular
	}
	return domain.RoleNewbie
}

// Lookup returns a copy of the active session.
func (r *Registry) Lookup(id domain.Identity) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return *s, true
}

// FindByCode resolves a display code among active sessions, case-insensitive.
func (r *Registry) FindByCode(code string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if strings.EqualFold(s.Code, code) {
			return *s, true
		}
	}
	return domain.Session{}, false
}

// Snapshot copies the active session set so fan-out loops are immune to
// joins and leaves scheduled between their suspending sends.
func (r *Registry) Snapshot() []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := lo.MapToSlice(r.sessions, func(_ domain.Identity, s *domain.Session) domain.Session {
		return *s
	})
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Code < sessions[j].Code })
	return sessions
}

// Roster builds the /list projection, ordered by code.
func (r *Registry) Roster() []domain.RosterEntry {
	now := r.clock()
	sessions := r.Snapshot()
	return lo.Map(sessions, func(s domain.Session, _ int) domain.RosterEntry {
		return domain.RosterEntry{
			Tier:      domain.TierOf(now.Sub(s.LastActive)),
			Role:      r.RoleOf(s.Identity),
			Code:      s.Code,
			Pseudonym: s.Pseudonym,
		}
	})
}

// Counts returns (total profiles ever seen, currently active).
func (r *Registry) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles), len(r.sessions)
}

// RecentExits returns the departure ring, most recent first.
func (r *Registry) RecentExits() []domain.RecentExit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RecentExit, len(r.exits))
	copy(out, r.exits)
	return out
}

// Prefs returns the identity's notification preferences, creating defaults
// on first touch.
func (r *Registry) Prefs(id domain.Identity) domain.NotifyPrefs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.prefsLocked(id)
}

// UpdatePrefs applies fn to the identity's preferences under the lock.
func (r *Registry) UpdatePrefs(id domain.Identity, fn func(*domain.NotifyPrefs)) domain.NotifyPrefs {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.prefsLocked(id)
	fn(p)
	return *p
}

func (r *Registry) prefsLocked(id domain.Identity) *domain.NotifyPrefs {
	p, ok := r.prefs[id]
	if !ok {
		defaults := domain.DefaultNotifyPrefs()
		p = &defaults
		r.prefs[id] = p
	}
	return p
}
