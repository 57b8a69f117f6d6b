package task

// logTransition emits a Debug-level structured record of a state-machine
// transition. Silent unless a logger was attached via WithLogger.
func (t *Task) logTransition(event string) {
	t.mu.Lock()
	name := t.label()
	id := t.id
	state := t.state
	t.mu.Unlock()

	t.logger.Debug().
		Str("event", event).
		Str("task", name).
		Uint64("task_id", id).
		Str("state", state.String()).
		Log("task transition")
}

// logError emits an Error-level record of an unhandled action failure.
func (t *Task) logError(err error) {
	t.mu.Lock()
	name := t.label()
	id := t.id
	t.mu.Unlock()

	t.logger.Err().
		Err(err).
		Str("task", name).
		Uint64("task_id", id).
		Log("unhandled action failure")
}
