// Package polls owns the poll lifecycle: at most one live poll per creator,
// single-choice vote bookkeeping and live edit propagation to every
// delivered copy.
package polls

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"anonchat/contract"
	"anonchat/domain"
	"anonchat/errors"
)

type Engine struct {
	mu        sync.Mutex
	log       *slog.Logger
	transport contract.Transport
	polls     map[domain.Identity]*domain.Poll
}

func NewEngine(log *slog.Logger, transport contract.Transport) *Engine {
	return &Engine{
		log:       log,
		transport: transport,
		polls:     make(map[domain.Identity]*domain.Poll),
	}
}

// Open creates the creator's poll, superseding any prior one without closing
// it, and delivers one copy with voting controls to every given session,
// recording each delivered location for later edits. Returns the number of
// copies delivered; failed destinations are skipped.
func (e *Engine) Open(ctx context.Context, creator domain.Session, input domain.PollInput, recipients []domain.Session) int {
	poll := domain.NewPoll(creator.Identity, input.Question, input.Options)

	e.mu.Lock()
	e.polls[creator.Identity] = poll
	e.mu.Unlock()

	// The first delivery shows only the question; tallies appear once the
	// first vote re-renders the body.
	header := fmt.Sprintf("[Poll from %s %s]:\n%s", creator.Code, creator.Pseudonym, input.Question)
	kb := poll.Keyboard()

	delivered := 0
	for _, s := range recipients {
		loc, err := e.transport.SendKeyboard(ctx, s.Channel, header, kb)
		if err != nil {
			e.log.Warn("Poll delivery failed", "recipient", s.Pseudonym, "err", err)
			continue
		}
		e.mu.Lock()
		poll.Locations[s.Identity] = loc
		e.mu.Unlock()
		delivered++
	}
	return delivered
}

// Vote applies a single-choice vote and pushes the re-rendered body to every
// recorded location. Locations that fail to update (deleted or unreachable
// copies) are skipped without aborting the rest.
func (e *Engine) Vote(ctx context.Context, creator domain.Identity, oneBasedOption int, voter domain.Identity) error {
	e.mu.Lock()
	poll, ok := e.polls[creator]
	if !ok {
		e.mu.Unlock()
		return errors.ErrPollNotFound
	}
	if err := poll.Vote(voter, oneBasedOption-1); err != nil {
		e.mu.Unlock()
		return err
	}
	body := poll.Render()
	kb := poll.Keyboard()
	locations := snapshotLocations(poll)
	e.mu.Unlock()

	for _, loc := range locations {
		if err := e.transport.EditText(ctx, loc, body, &kb); err != nil {
			e.log.Warn("Poll update failed", "location", loc, "err", err)
		}
	}
	return nil
}

// Finalize deactivates the poll and strips controls from every delivered
// copy. Tallies stay readable afterwards; further votes fail with PollClosed.
func (e *Engine) Finalize(ctx context.Context, creator domain.Identity) error {
	e.mu.Lock()
	poll, ok := e.polls[creator]
	if !ok || !poll.Active {
		e.mu.Unlock()
		return errors.ErrPollNotFound
	}
	poll.Active = false
	locations := snapshotLocations(poll)
	e.mu.Unlock()

	for _, loc := range locations {
		if err := e.transport.EditKeyboard(ctx, loc, nil); err != nil {
			e.log.Warn("Stripping poll controls failed", "location", loc, "err", err)
		}
	}
	return nil
}

// Tallies returns the per-option counts of the creator's poll, live or
// finalized.
func (e *Engine) Tallies(creator domain.Identity) ([]int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	poll, ok := e.polls[creator]
	if !ok {
		return nil, false
	}
	return poll.Tallies(), true
}

// Lookup exposes the creator's poll for projections and tests.
func (e *Engine) Lookup(creator domain.Identity) (*domain.Poll, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	poll, ok := e.polls[creator]
	return poll, ok
}

// snapshotLocations must be called with the lock held: the copy makes the
// edit loop independent of votes applied while edits are in flight.
func snapshotLocations(poll *domain.Poll) []domain.Location {
	locations := make([]domain.Location, 0, len(poll.Locations))
	for _, loc := range poll.Locations {
		locations = append(locations, loc)
	}
	return locations
}
