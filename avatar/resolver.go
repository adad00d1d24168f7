// Package avatar picks the first loadable image out of an ordered list of
// candidate locations.
package avatar

import (
	"slices"
	"sync"
)

type Phase int

const (
	Loading Phase = iota
	Loaded
	FailedAll
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case FailedAll:
		return "failed-all"
	}
	return "unknown"
}

// Terminal reports whether no further transitions happen for the current
// candidate list.
func (p Phase) Terminal() bool {
	return p != Loading
}

// State is a snapshot of a resolution run.
type State struct {
	Gen   uint64
	Index int
	Phase Phase
}

// Attempt identifies one candidate load. Completions are reported with the
// attempt they belong to so that late results for a replaced list can be
// told apart from current ones.
type Attempt struct {
	Gen    uint64
	Index  int
	Source string
}

type ViewKind int

const (
	Shimmer ViewKind = iota
	Image
	Placeholder
)

// View is what the host should display for the avatar right now.
type View struct {
	Kind   ViewKind
	Source string
}

// Resolver walks a candidate list in order, one load at a time, and settles
// on the first candidate that loads. The zero value is not usable; use New.
type Resolver struct {
	// readyMu is held across onReady so a reset cannot interleave with it.
	readyMu    sync.Mutex
	mu         sync.Mutex
	candidates []string
	state      State
	onReady    func(string)
}

// New creates a resolver positioned on the first candidate. onReady, if not
// nil, is called once with the source that loaded. It must not call
// SetCandidates.
func New(candidates []string, onReady func(string)) *Resolver {
	r := &Resolver{onReady: onReady}
	r.reset(candidates)
	return r
}

// SetCandidates replaces the candidate list. The run restarts from the
// first candidate and completions for attempts of the previous list are
// ignored from now on. A running onReady finishes before the reset.
func (r *Resolver) SetCandidates(candidates []string) {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset(candidates)
}

func (r *Resolver) reset(candidates []string) {
	r.candidates = slices.Clone(candidates)
	r.state = State{Gen: r.state.Gen + 1}
	if len(r.candidates) == 0 {
		r.state.Phase = FailedAll
	}
}

func (r *Resolver) Candidates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.candidates)
}

func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current returns the attempt in flight, or false once the run is terminal.
func (r *Resolver) Current() (Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase.Terminal() {
		return Attempt{}, false
	}
	return r.attempt(), true
}

func (r *Resolver) attempt() Attempt {
	return Attempt{
		Gen:    r.state.Gen,
		Index:  r.state.Index,
		Source: r.candidates[r.state.Index],
	}
}

// current must be called with mu held.
func (r *Resolver) current(a Attempt) bool {
	return (a.Gen == r.state.Gen) && (a.Index == r.state.Index) && (r.state.Phase == Loading)
}

// Loaded reports that attempt a succeeded. It returns false, changing
// nothing, when a is stale or the run already ended.
func (r *Resolver) Loaded(a Attempt) bool {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()

	r.mu.Lock()
	if !r.current(a) {
		r.mu.Unlock()
		return false
	}
	r.state.Phase = Loaded
	src := r.candidates[r.state.Index]
	onReady := r.onReady
	r.mu.Unlock()

	if onReady != nil {
		onReady(src)
	}
	return true
}

// Failed reports that attempt a failed. The run advances to the next
// candidate, or ends in FailedAll after the last one.
func (r *Resolver) Failed(a Attempt) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.current(a) {
		return false
	}

	if r.state.Index < len(r.candidates)-1 {
		r.state.Index++
	} else {
		r.state.Phase = FailedAll
	}
	return true
}

// Resolved returns the source that loaded, if any.
func (r *Resolver) Resolved() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase != Loaded {
		return "", false
	}
	return r.candidates[r.state.Index], true
}

func (r *Resolver) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state.Phase {
	case Loaded:
		return View{Kind: Image, Source: r.candidates[r.state.Index]}
	case FailedAll:
		return View{Kind: Placeholder}
	}
	return View{Kind: Shimmer, Source: r.candidates[r.state.Index]}
}
