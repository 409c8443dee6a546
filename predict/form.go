package predict

import (
	"context"
	"sync"
)

// Phase is where a form submission is in its lifecycle.
type Phase uint8

const (
	Idle Phase = iota
	Loading
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a form. Value is set only in Success, Err only in
// Failed.
type State[T any] struct {
	Phase Phase
	Value T
	Err   string
}

func (s State[T]) Loading() bool { return s.Phase == Loading }

// FetchFunc performs a form's network work.
type FetchFunc[In, T any] func(ctx context.Context, in In) (T, error)

// Form owns the tri-state of one form: submit moves it to Loading, the
// response moves it to Success or Failed. If a submission is superseded by a
// newer one before it resolves, its result is dropped.
type Form[In, T any] struct {
	fetch    FetchFunc[In, T]
	fallback string

	mu       sync.Mutex
	state    State[T]
	seq      uint64
	observer func(State[T])
}

// NewForm binds a form to a single endpoint.
func NewForm[In, T any](c *Client, ep Endpoint) *Form[In, T] {
	return NewFormFunc(func(ctx context.Context, in In) (T, error) {
		return Fetch[T](ctx, c, ep, in)
	}, ep.transportMessage())
}

// NewFormFunc builds a form around an arbitrary fetch. fallback is shown for
// errors that carry no message of their own.
func NewFormFunc[In, T any](fetch FetchFunc[In, T], fallback string) *Form[In, T] {
	if fallback == "" {
		fallback = defaultTransportMessage
	}
	return &Form[In, T]{fetch: fetch, fallback: fallback}
}

// Observe registers fn to be called on every state transition.
func (f *Form[In, T]) Observe(fn func(State[T])) *Form[In, T] {
	f.mu.Lock()
	f.observer = fn
	f.mu.Unlock()
	return f
}

// State returns the current snapshot.
func (f *Form[In, T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reset puts the form back to Idle and orphans any in-flight submission.
func (f *Form[In, T]) Reset() {
	f.mu.Lock()
	f.seq++
	f.state = State[T]{}
	obs := f.observer
	f.mu.Unlock()
	if obs != nil {
		obs(State[T]{})
	}
}

// Submit runs one submission and returns the state it resolved to.
func (f *Form[In, T]) Submit(ctx context.Context, in In) State[T] {
	f.mu.Lock()
	f.seq++
	id := f.seq
	f.state = State[T]{Phase: Loading}
	obs := f.observer
	f.mu.Unlock()
	if obs != nil {
		obs(State[T]{Phase: Loading})
	}

	v, err := f.fetch(ctx, in)
	next := State[T]{Phase: Success, Value: v}
	if err != nil {
		next = State[T]{Phase: Failed, Err: Message(err, f.fallback)}
	}

	f.mu.Lock()
	if id != f.seq {
		f.mu.Unlock()
		return next
	}
	f.state = next
	obs = f.observer
	f.mu.Unlock()
	if obs != nil {
		obs(next)
	}
	return next
}
