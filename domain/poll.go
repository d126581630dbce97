package domain

import (
	"fmt"
	"strings"

	"anonchat/errors"
)

// Poll is one creator's poll: question, options, per-option voter sets and
// the delivery locations used to retarget live edits. A voter appears in at
// most one option's set at any time.
type Poll struct {
	Creator   Identity
	Question  string
	Options   []string
	votes     []map[Identity]struct{}
	Active    bool
	Locations map[Identity]Location
}

func NewPoll(creator Identity, question string, options []string) *Poll {
	votes := make([]map[Identity]struct{}, len(options))
	for i := range votes {
		votes[i] = make(map[Identity]struct{})
	}
	return &Poll{
		Creator:   creator,
		Question:  question,
		Options:   options,
		votes:     votes,
		Active:    true,
		Locations: make(map[Identity]Location),
	}
}

// Vote records voter on the zero-based option index, evicting any previous
// choice so single-choice holds.
func (p *Poll) Vote(voter Identity, option int) error {
	if !p.Active {
		return errors.ErrPollClosed
	}
	if option < 0 || option >= len(p.Options) {
		return errors.ErrInvalidOption
	}
	for _, set := range p.votes {
		delete(set, voter)
	}
	p.votes[option][voter] = struct{}{}
	return nil
}

// Tallies returns the vote count per option. Counts stay readable after the
// poll is finalized.
func (p *Poll) Tallies() []int {
	counts := make([]int, len(p.votes))
	for i, set := range p.votes {
		counts[i] = len(set)
	}
	return counts
}

// ChoiceOf returns the zero-based option the voter currently holds.
func (p *Poll) ChoiceOf(voter Identity) (int, bool) {
	for i, set := range p.votes {
		if _, ok := set[voter]; ok {
			return i, true
		}
	}
	return 0, false
}

// Render produces the poll body: question, then one line per option with its
// live count. Voted options are ticked, the rest keep their ordinal.
func (p *Poll) Render() string {
	lines := []string{p.Question}
	for i, opt := range p.Options {
		count := len(p.votes[i])
		mark := fmt.Sprintf("%d", i+1)
		if count > 0 {
			mark = "✔️"
		}
		lines = append(lines, fmt.Sprintf("%s - %s (%d)", mark, opt, count))
	}
	return strings.Join(lines, "\n")
}

// Keyboard builds one voting button per option, tokens carrying the creator
// identity and a one-based option index.
func (p *Poll) Keyboard() Keyboard {
	var kb Keyboard
	for i, opt := range p.Options {
		kb.Rows = append(kb.Rows, []Button{{
			Label: fmt.Sprintf("%d - %s", i+1, opt),
			Token: fmt.Sprintf("%s|%s|%d", TokenPollVote, p.Creator, i+1),
		}})
	}
	return kb
}
