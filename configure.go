package task

import "time"

// configurableLocked reports whether the task's head link may currently be
// mutated: configuration writes are only allowed from CREATED, STOPPED, or
// FINISHED, mirroring the states Start itself accepts.
func (t *Task) configurableLocked() error {
	if t.consumed {
		return invalidState("Configure", StateFinished)
	}
	switch t.state {
	case StateCreated, StateStopped, StateFinished:
		return nil
	default:
		return invalidState("Configure", t.state)
	}
}

// Configure applies Options to the task's head link. It's rejected with
// ErrInvalidState while the task is running (STARTED, TO_STOP, TO_CONTINUE),
// consistent with Start's own state requirements.
func (t *Task) Configure(opts ...Option) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.configurableLocked(); err != nil {
		return err
	}
	for _, o := range opts {
		if err := o.apply(t); err != nil {
			return err
		}
	}
	if t.link.kind == kindRepeated || t.link.kind == kindPeriodic {
		t.link.initialRepeatNum = t.link.repeatNum
	}
	return nil
}

// Args returns a copy of the head link's bound positional arguments.
func (t *Task) Args() Args {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append(Args(nil), t.link.args...)
}

// KWArgs returns a copy of the head link's bound keyword arguments.
func (t *Task) KWArgs() KWArgs {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make(KWArgs, len(t.link.kwargs))
	for k, v := range t.link.kwargs {
		cp[k] = v
	}
	return cp
}

// Duration returns the head link's configured post-action delay.
func (t *Task) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.link.duration
}

// Len returns the number of links in the task's chain, including the head.
func (t *Task) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for l := &t.link; l != nil; l = l.next {
		n++
	}
	return n
}

// LinkDurations returns the sum of every link's configured post-action
// delay, a rough lower bound on how long an uninterrupted run will take
// (ignoring Repeated/Periodic loop iterations and action runtime itself).
func (t *Task) LinkDurations() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for l := &t.link; l != nil; l = l.next {
		total += l.duration
	}
	return total
}
