package task

// Once builds a single-shot task: action runs exactly once, then (after
// its configured post-action delay) the task reaches FINISHED unless
// further links are appended with Append.
func Once(action Action, opts ...Option) *Task {
	return newTask(action, kindOnce, opts)
}
