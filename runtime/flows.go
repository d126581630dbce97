package runtime

import (
	"sync"

	"anonchat/domain"
)

// FlowStore keeps one pending interactive flow per participant. Transitions
// are explicit: Begin replaces whatever was pending, Expect hands back the
// flow only when its kind matches, Abort clears it. An unexpected input is a
// defined no-op, never undefined behavior.
type FlowStore struct {
	mu    sync.Mutex
	flows map[domain.Identity]domain.Flow
}

func NewFlowStore() *FlowStore {
	return &FlowStore{flows: make(map[domain.Identity]domain.Flow)}
}

// Begin installs a flow, superseding any pending one.
func (f *FlowStore) Begin(id domain.Identity, flow domain.Flow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flows[id] = flow
}

// Current returns the pending flow, FlowNone when idle.
func (f *FlowStore) Current(id domain.Identity) domain.Flow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flows[id]
}

// Expect pops the pending flow when it has the wanted kind. The flow is
// cleared on a hit so partially-entered state cannot leak into a later,
// unrelated request; a miss leaves the store untouched.
func (f *FlowStore) Expect(id domain.Identity, kind domain.FlowKind) (domain.Flow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flow, ok := f.flows[id]
	if !ok || flow.Kind != kind {
		return domain.Flow{}, false
	}
	delete(f.flows, id)
	return flow, true
}

// Abort clears any pending flow and reports whether one existed.
func (f *FlowStore) Abort(id domain.Identity) (domain.Flow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flow, ok := f.flows[id]
	if ok {
		delete(f.flows, id)
	}
	return flow, ok
}
