package task

import (
	"runtime/debug"
	"time"
)

// afterWaitKind records what a suspended executor still owes once an
// interrupted (or resumed) wait finishes, so Cont can pick up exactly
// where Stop cut it off without re-running an action that already ran.
type afterWaitKind int

const (
	// afterWaitRunAction means the action at cursor has not run yet (the
	// stop or the initial/Cont attach landed before it was invoked, or
	// before any wait was reached at all). Resuming means entering the
	// main loop at cursor, unchanged.
	afterWaitRunAction afterWaitKind = iota
	// afterWaitAdvance means the action at cursor already ran to its
	// decision; once the pending wait finishes, move to cursor.next.
	afterWaitAdvance
	// afterWaitRepeatSameLink means the action already ran and decided to
	// repeat; once the pending wait finishes, invoke cursor's action again.
	afterWaitRepeatSameLink
)

// runFresh is the executor entry point for a freshly Start'd task.
func (t *Task) runFresh(delay time.Duration, done chan struct{}) {
	defer close(done)
	t.invokeHeadHook(t.link.hooks.onStart)
	if !t.runDelay(&t.link, delay, afterWaitRunAction) {
		return
	}
	t.loop()
}

// runResume is the executor entry point after Cont re-attaches a task.
func (t *Task) runResume(done chan struct{}) {
	defer close(done)

	for _, c := range t.snapshotChildren() {
		if c.State() == StateStopped {
			c.Cont()
		}
	}

	t.mu.Lock()
	if t.state == StateToContinue {
		t.state = StateStarted
	}
	cur := t.cursor
	residual := t.residual
	resumeKind := t.afterWait
	t.residual = 0
	t.afterWait = afterWaitRunAction
	t.mu.Unlock()

	t.invokeHeadHook(t.link.hooks.onCont)

	// residual, not resumeKind, is what tells us a wait is actually
	// pending: resumeKind can be afterWaitRunAction either because no wait
	// was ever reached (residual == 0, just enter loop() at cursor) or
	// because the stop landed mid-delay before any chain action had run
	// yet (residual > 0, the pre-chain Start delay) — those need the
	// remaining wait replayed before loop() invokes cursor's action.
	if residual > 0 {
		if !t.doDelay(cur, residual, resumeKind) {
			return
		}
		if !t.finishPendingStep(cur, resumeKind) {
			return
		}
	} else if resumeKind != afterWaitRunAction {
		// The stop landed at a zero-duration suspension point: cursor's
		// action already ran and resumeKind records the decision it made,
		// but residual == 0 means there was no wait to replay. Apply that
		// decision now, or loop() would invoke cursor's action a second time.
		if !t.finishPendingStep(cur, resumeKind) {
			return
		}
	}
	t.loop()
}

// loop is the chain walker shared by every entry path: it repeatedly reads
// the current cursor, checks for a pending stop, runs the cursor's action,
// and dispatches on the link's kind to decide the next suspension.
func (t *Task) loop() {
	for {
		t.mu.Lock()
		if t.state == StateToStop {
			cur := t.cursor
			t.mu.Unlock()
			t.finalizeStopped(cur, 0, afterWaitRunAction)
			return
		}
		cur := t.cursor
		t.activity = ActivityBusy
		t.mu.Unlock()

		result, err := t.invokeAction(cur)

		t.mu.Lock()
		t.activity = ActivityNone
		t.mu.Unlock()

		if err != nil {
			outcome := t.handleActionError(cur, err)
			if outcome.kind == outcomeSwallow {
				result = nil
			} else {
				t.finalizeReraise(cur, outcome)
				return
			}
		}

		var cont bool
		switch cur.kind {
		case kindRepeated:
			cont = t.stepRepeated(cur, result)
		case kindPeriodic:
			cont = t.stepPeriodic(cur, result)
		default: // kindOnce, kindSleep
			cont = t.runDelay(cur, cur.duration, afterWaitAdvance)
		}
		if !cont {
			return
		}
	}
}

func (t *Task) stepRepeated(cur *link, result Result) bool {
	delay, stop, err := adaptRepeatResult(result)
	if err != nil {
		outcome := t.handleActionError(cur, err)
		if outcome.kind != outcomeSwallow {
			t.finalizeReraise(cur, outcome)
			return false
		}
		return t.runDelay(cur, 0, afterWaitAdvance)
	}

	t.mu.Lock()
	if cur.repeatNum > 0 {
		cur.repeatNum--
		if cur.repeatNum == 0 {
			stop = true
		}
	}
	t.mu.Unlock()

	if stop {
		return t.runDelay(cur, 0, afterWaitAdvance)
	}
	return t.runDelay(cur, delay, afterWaitRepeatSameLink)
}

func (t *Task) stepPeriodic(cur *link, result Result) bool {
	_, stop, err := adaptRepeatResult(result)
	if err != nil {
		outcome := t.handleActionError(cur, err)
		if outcome.kind != outcomeSwallow {
			t.finalizeReraise(cur, outcome)
			return false
		}
		return t.runDelay(cur, 0, afterWaitAdvance)
	}

	t.mu.Lock()
	if cur.repeatNum > 0 {
		cur.repeatNum--
		if cur.repeatNum == 0 {
			stop = true
		}
	}
	t.mu.Unlock()

	if stop {
		return t.runDelay(cur, 0, afterWaitAdvance)
	}
	return t.runDelay(cur, cur.periodicIval, afterWaitRepeatSameLink)
}

// runDelay applies d (possibly zero) before performing the step kind
// describes. A zero delay still re-checks for a pending stop: every link
// boundary is a suspension point, even one with nothing to sleep through.
func (t *Task) runDelay(cur *link, d time.Duration, kind afterWaitKind) bool {
	if d > 0 {
		if !t.doDelay(cur, d, kind) {
			return false
		}
	} else {
		t.mu.Lock()
		stopped := t.state == StateToStop
		t.mu.Unlock()
		if stopped {
			t.finalizeStopped(cur, 0, kind)
			return false
		}
	}
	return t.finishPendingStep(cur, kind)
}

// doDelay performs the interruptible wait itself. It returns false (having
// already finalized the task to STOPPED) if a stop was observed either
// during or immediately after the wait.
func (t *Task) doDelay(cur *link, d time.Duration, kind afterWaitKind) bool {
	t.mu.Lock()
	t.activity = ActivitySleep
	t.mu.Unlock()

	remaining := t.wait.wait(d)

	t.mu.Lock()
	stopped := t.state == StateToStop
	if !stopped {
		t.activity = ActivityNone
	}
	t.mu.Unlock()

	if stopped {
		t.finalizeStopped(cur, remaining, kind)
		return false
	}
	return true
}

// finishPendingStep performs whatever step a completed wait was standing
// in for, returning whether loop() should continue iterating.
func (t *Task) finishPendingStep(cur *link, kind afterWaitKind) bool {
	switch kind {
	case afterWaitAdvance:
		return t.advance(cur)
	case afterWaitRepeatSameLink:
		return true
	default: // afterWaitRunAction
		return true
	}
}

// advance moves the cursor to cur.next, or finalizes FINISHED if cur was
// the chain's last link.
func (t *Task) advance(cur *link) bool {
	t.mu.Lock()
	next := cur.next
	if next == nil {
		t.mu.Unlock()
		t.finalizeFinished()
		return false
	}
	t.cursor = next
	t.residual = 0
	t.mu.Unlock()
	return true
}

// invokeAction runs a link's action, converting a panic into a *PanicError
// so a misbehaving user callback can never crash the process.
func (t *Task) invokeAction(cur *link) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return cur.action(cur.args, cur.kwargs)
}

// invokeHeadHook runs a lifecycle hook (onStart/onStop/onCont/onFinal),
// routing a panic through the same exception-climbing algorithm an action
// failure uses, with the head link as the climb's origin. A hook that
// swallows silently completes;
// one that (via the climb) re-raises has its failure recorded on Err and,
// if the default handler picked an ancestor as the stop target, cascades a
// Stop into that subtree. Either way the caller (already mid-finalization)
// proceeds unchanged — a failing hook never prevents its task from
// reaching the state it was already headed for.
func (t *Task) invokeHeadHook(h Hook) {
	if h.isZero() {
		return
	}
	err := safeInvokeHook(h)
	if err == nil {
		return
	}
	outcome := t.handleActionError(&t.link, err)
	if outcome.kind != outcomeReraise {
		return
	}
	wrapped := &ActionError{TaskID: t.id, TaskName: t.name, LinkIndex: t.link.index, Err: outcome.err}
	t.mu.Lock()
	t.lastErr = wrapped
	t.mu.Unlock()
	t.logError(wrapped)
	if outcome.stopTarget != nil && outcome.stopTarget != t {
		outcome.stopTarget.Stop()
	}
}

func safeInvokeHook(h Hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	h.invoke()
	return nil
}

// finalizeStopped runs on_stop and publishes STOPPED along with the
// residual wait time and resume disposition Cont will need. It also
// cascades Stop to any still-registered children: an explicit Stop call
// already did this before the executor ever reached here, so that case is
// a harmless no-op repeat, but a task reraising an unhandled exception (see
// finalizeReraise) never goes through Stop at all, and its children must
// stop regardless of why their parent did.
func (t *Task) finalizeStopped(cur *link, residual time.Duration, resumeKind afterWaitKind) {
	t.invokeHeadHook(t.link.hooks.onStop)

	t.mu.Lock()
	t.state = StateStopped
	t.activity = ActivityNone
	t.cursor = cur
	t.residual = residual
	t.afterWait = resumeKind
	t.mu.Unlock()

	t.wait.reset()
	t.logTransition("stop")

	for _, c := range t.snapshotChildren() {
		c.Stop()
	}
}

// finalizeFinished runs on_final and publishes FINISHED, then detaches from
// any parent: a finished child removes itself from its parent's children
// set.
func (t *Task) finalizeFinished() {
	t.invokeHeadHook(t.link.hooks.onFinal)

	t.mu.Lock()
	t.state = StateFinished
	t.activity = ActivityNone
	t.cursor = nil
	t.residual = 0
	t.mu.Unlock()

	t.logTransition("finish")

	if parent := t.parentSnapshot(); parent != nil {
		parent.removeChild(t)
	}
}

// finalizeReraise terminates the origin task's executor after the
// exception-climbing algorithm in exception.go found no handler that
// swallowed the failure. The origin always finalizes to STOPPED directly,
// since its own goroutine is the one unwinding and nothing else will ever
// observe it sitting in TO_STOP; if the climb's default handler fired on
// an ancestor, that ancestor is additionally asked to Stop, cascading the
// same way an explicit Stop call would.
func (t *Task) finalizeReraise(cur *link, outcome excOutcome) {
	wrapped := &ActionError{TaskID: t.id, TaskName: t.name, LinkIndex: cur.index, Err: outcome.err}

	t.mu.Lock()
	t.lastErr = wrapped
	t.mu.Unlock()
	t.logError(wrapped)

	t.finalizeStopped(cur, 0, afterWaitRunAction)

	if outcome.stopTarget != nil && outcome.stopTarget != t {
		outcome.stopTarget.Stop()
	}
}

func (t *Task) parentSnapshot() *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parent
}

func (t *Task) addChild(c *Task) {
	t.mu.Lock()
	t.children[c] = struct{}{}
	t.mu.Unlock()
}

func (t *Task) removeChild(c *Task) {
	t.mu.Lock()
	delete(t.children, c)
	t.mu.Unlock()
}
