package task

// Append splices other's entire chain onto the tail of t's, and consumes
// other: once appended, other is no longer independently operable (its own
// Start/Stop/Cont/Append calls are rejected) since its links now belong to
// t's chain and are only reachable through t. Returns t for chaining.
//
// Both t and other must be in CREATED, STOPPED, or FINISHED; other must
// not already be consumed. Violating either records an error retrievable
// via t.Err and leaves both tasks untouched.
func (t *Task) Append(other *Task) *Task {
	if other == nil {
		t.mu.Lock()
		t.lastErr = invalidArgument("Append", "other must not be nil")
		t.mu.Unlock()
		return t
	}
	if other == t {
		t.mu.Lock()
		t.lastErr = invalidArgument("Append", "a task cannot be appended to itself")
		t.mu.Unlock()
		return t
	}

	// Lock both tasks in a fixed order by ID (monotonic, unique) rather
	// than receiver-then-argument: otherwise a concurrent t.Append(other)
	// racing an other.Append(t) could deadlock, each goroutine holding one
	// task's lock while waiting on the other's.
	if t.id < other.id {
		t.mu.Lock()
		defer t.mu.Unlock()
		other.mu.Lock()
		defer other.mu.Unlock()
	} else {
		other.mu.Lock()
		defer other.mu.Unlock()
		t.mu.Lock()
		defer t.mu.Unlock()
	}

	if err := t.configurableLocked(); err != nil {
		t.lastErr = err
		return t
	}

	if other.consumed {
		t.lastErr = invalidArgument("Append", "other task has already been appended elsewhere")
		return t
	}
	switch other.state {
	case StateCreated, StateStopped, StateFinished:
	default:
		t.lastErr = invalidState("Append", other.state)
		return t
	}

	tail := &t.link
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = &other.link
	other.consumed = true

	idx := tail.index + 1
	for l := tail.next; l != nil; l = l.next {
		l.root = t
		l.index = idx
		idx++
	}

	t.lastErr = nil
	return t
}

// Concat appends tasks[1:] onto tasks[0] in order, returning tasks[0] (or
// nil if tasks is empty). A convenience wrapper around repeated Append
// calls.
func Concat(tasks ...*Task) *Task {
	if len(tasks) == 0 {
		return nil
	}
	head := tasks[0]
	for _, other := range tasks[1:] {
		head.Append(other)
	}
	return head
}
