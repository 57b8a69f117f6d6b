package task

// Repeated builds a task whose action runs in a loop: its return value
// (see adaptRepeatResult for the control-value mapping) decides the delay
// before the next invocation, or ends the loop. policy additionally caps
// the number of invocations regardless of what the action returns.
func Repeated(action Action, policy RepeatPolicy, opts ...Option) *Task {
	all := append([]Option{WithRepeat(policy.Num)}, opts...)
	return newTask(action, kindRepeated, all)
}
