package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/ChristophGaukel/thread-task/internal/tasklog"
)

// Task is the head of a chain of links: a link plus the state machine,
// activity indicator, residual-delay memory, and child-task bookkeeping
// that make it independently runnable.
type Task struct {
	link // this task's own link is the chain's head, at index 0

	mu sync.Mutex

	state    State
	activity Activity

	residual  time.Duration
	afterWait afterWaitKind
	cursor    *link

	children map[*Task]struct{}
	parent   *Task

	threadless bool
	consumed   bool // true once Append has spliced this task into another

	execDone chan struct{}
	wait     *interruptibleWait

	lastErr error

	id     uint64
	name   string
	logger *logiface.Logger[logiface.Event]
}

// newTask allocates a Task wrapping the given action as its head link, and
// applies construction-time options. An option that fails aborts the rest
// and leaves its error on Err(), consistent with the chainable-but-fallible
// pattern the rest of the public API uses.
func newTask(action Action, k kind, opts []Option) *Task {
	t := &Task{
		state:    StateCreated,
		activity: ActivityNone,
		children: make(map[*Task]struct{}),
		wait:     newInterruptibleWait(),
		id:       allocTaskID(),
		logger:   tasklog.Discard(),
	}
	t.link = link{
		action: action,
		root:   t,
		index:  0,
		kind:   k,
	}
	t.cursor = &t.link

	for _, o := range opts {
		if err := o.apply(t); err != nil {
			t.lastErr = err
			break
		}
	}
	return t
}

// ID returns the task's process-wide unique, monotonically assigned
// identifier.
func (t *Task) ID() uint64 { return t.id }

// Name returns the human-readable name set via WithName, or "" if none.
func (t *Task) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

func (t *Task) label() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("#%d", t.id)
}

// State returns the task's current lifecycle state. This and Activity are
// read under the same lock that every transition uses, so a caller always
// observes a value that was simultaneously consistent with the (state,
// activity) invariants.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Activity returns the task's current fine-grained activity.
func (t *Task) Activity() Activity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activity
}

// Err returns the most recent misuse error from a chainable operation
// (Start/Stop/Cont/Join/Append/Concat), or the rendered *ActionError left
// behind when the default exception handler terminated this task's
// executor. It's cleared by the next successful Start, Cont, or Append.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Start transitions CREATED, STOPPED, or FINISHED into STARTED, launching
// an executor that walks the chain from its head. delay, if positive, is
// honored (interruptibly) before the first link's action runs. threadless
// runs the executor inline on the calling goroutine instead of spawning a
// new one; see JoinChild and the threadless note on Join for the
// consequences.
//
// Called from any other state, Start is rejected: it records
// ErrInvalidState (retrievable via Err) and returns self unchanged.
func (t *Task) Start(delay time.Duration, threadless bool) *Task {
	t.mu.Lock()
	if err := t.configurableLocked(); err != nil {
		t.lastErr = err
		t.mu.Unlock()
		return t
	}
	if delay < 0 {
		t.lastErr = invalidArgument("Start", "delay must be >= 0")
		t.mu.Unlock()
		return t
	}

	t.state = StateStarted
	t.activity = ActivityNone
	t.residual = 0
	t.afterWait = afterWaitRunAction
	t.cursor = &t.link
	t.threadless = threadless
	t.lastErr = nil
	t.resetRepeatCountersLocked()
	done := make(chan struct{})
	t.execDone = done
	t.mu.Unlock()

	t.wait.reset()
	t.logTransition("start")

	run := func() { t.runFresh(delay, done) }
	if threadless {
		run()
	} else {
		go run()
	}
	return t
}

// resetRepeatCountersLocked restores every Repeated/Periodic link's
// invocation cap, so a restarted task repeats the same number of times it
// did the first time, rather than inheriting whatever count a prior run
// left behind.
func (t *Task) resetRepeatCountersLocked() {
	for l := &t.link; l != nil; l = l.next {
		switch l.kind {
		case kindRepeated:
			l.repeatNum = l.initialRepeatNum
		case kindPeriodic:
			l.repeatNum = l.initialRepeatNum
		}
	}
}

// Stop asynchronously, cooperatively requests that the task's executor
// unwind at its next suspension point. It first dispatches Stop to every
// currently-running child, then moves this task itself to TO_STOP.
//
// It's idempotent from STOPPED, TO_STOP, and FINISHED (a no-op), and
// rejected (ErrInvalidState) from CREATED and on a task consumed by Append.
func (t *Task) Stop() *Task {
	t.mu.Lock()
	if t.consumed {
		t.lastErr = invalidState("Stop", t.state)
		t.mu.Unlock()
		return t
	}
	switch t.state {
	case StateStarted, StateToContinue:
		children := t.snapshotChildrenLocked()
		t.mu.Unlock()
		for _, c := range children {
			c.Stop()
		}
		t.mu.Lock()
		if t.state == StateStarted || t.state == StateToContinue {
			t.state = StateToStop
		}
		t.mu.Unlock()
		t.wait.interrupt()
		return t
	case StateToStop, StateStopped, StateFinished:
		t.mu.Unlock()
		return t
	default: // CREATED
		t.lastErr = invalidState("Stop", t.state)
		t.mu.Unlock()
		return t
	}
}

// Cont resumes a STOPPED task, re-attaching a new executor at the link and
// (possibly fractional) delay it stopped at. Called on TO_STOP, it first
// blocks until the in-flight stop completes, then proceeds as if called
// on STOPPED. It's a silent no-op on FINISHED, and rejected elsewhere.
func (t *Task) Cont() *Task {
	t.mu.Lock()
	if t.consumed {
		t.lastErr = invalidState("Cont", t.state)
		t.mu.Unlock()
		return t
	}
	switch t.state {
	case StateToStop:
		t.mu.Unlock()
		t.Join()
		t.mu.Lock()
		if t.state != StateStopped {
			t.mu.Unlock()
			return t
		}
	case StateStopped:
		// fall through below
	case StateFinished:
		t.mu.Unlock()
		return t
	default:
		t.lastErr = invalidState("Cont", t.state)
		t.mu.Unlock()
		return t
	}

	t.state = StateToContinue
	t.lastErr = nil
	threadless := t.threadless
	done := make(chan struct{})
	t.execDone = done
	t.mu.Unlock()

	t.logTransition("cont")

	run := func() { t.runResume(done) }
	if threadless {
		run()
	} else {
		go run()
	}
	return t
}

// Join blocks until the task reaches a stopped or terminal state: STOPPED,
// FINISHED, or (if it was never started) CREATED.
//
// A task started with threadless=true has no independent execution
// context to wait on — Start itself already ran the whole chain inline on
// its caller before returning. Join on such a task is a documented no-op
// rather than a silent (and misleading) wait on the launcher's own
// goroutine.
func (t *Task) Join() *Task {
	for {
		t.mu.Lock()
		s := t.state
		threadless := t.threadless
		done := t.execDone
		t.mu.Unlock()

		if threadless {
			return t
		}
		switch s {
		case StateCreated, StateStopped, StateFinished:
			return t
		}
		if done == nil {
			return t
		}
		<-done
	}
}

// snapshotChildrenLocked returns the current children, t.mu must be held.
func (t *Task) snapshotChildrenLocked() []*Task {
	out := make([]*Task, 0, len(t.children))
	for c := range t.children {
		out = append(out, c)
	}
	return out
}

func (t *Task) snapshotChildren() []*Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotChildrenLocked()
}
