package task

import "runtime/debug"

type outcomeKind int

const (
	outcomeSwallow outcomeKind = iota
	outcomeReraise
)

// excOutcome is what the climbing algorithm decided. stopTarget is only set
// when the default handler (no excHandler anywhere on the climb) is what
// terminated the search — it names the task whose Stop should cascade
// through the rest of the tree.
type excOutcome struct {
	kind       outcomeKind
	err        error
	stopTarget *Task
}

// handleActionError implements the exception-climbing algorithm: the
// failing link's own handler, then its chain head's, then (recursively)
// the parent task's chain head, and so on; the first handler found decides
// swallow or re-raise. If no handler exists anywhere on the climb, the
// default behavior applies: the origin task stops and the error re-raises
// to whichever task owned the last head link examined.
func (t *Task) handleActionError(origin *link, err error) excOutcome {
	cur := t
	l := origin

	for {
		h := l.hooks.excHandler
		if !h.isZero() {
			if result := safeInvokeExcHandler(h, err); result == nil {
				return excOutcome{kind: outcomeSwallow}
			} else {
				return excOutcome{kind: outcomeReraise, err: result}
			}
		}

		if l != &cur.link {
			l = &cur.link
			continue
		}

		parent := cur.parentSnapshot()
		if parent == nil {
			return excOutcome{kind: outcomeReraise, err: err, stopTarget: cur}
		}
		cur = parent
		l = &cur.link
	}
}

// safeInvokeExcHandler recovers a panicking handler into a *PanicError,
// treating the panic as the handler's decision to re-raise rather than
// restarting the climb from scratch (which risks looping forever against a
// handler that always panics).
func safeInvokeExcHandler(h ExcHandler, err error) (result error) {
	defer func() {
		if r := recover(); r != nil {
			result = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h.invoke(err)
}
