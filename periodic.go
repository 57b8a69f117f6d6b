package task

// Periodic builds a task whose action runs at a fixed cadence: policy's
// Interval is always waited between invocations (unlike Repeated, which
// takes its delay from the action's own return value), and the action's
// return value only decides whether to stop early. policy.Num
// additionally caps the number of invocations.
func Periodic(action Action, policy PeriodicPolicy, opts ...Option) *Task {
	all := append([]Option{WithRepeat(policy.Num), WithInterval(policy.Interval)}, opts...)
	return newTask(action, kindPeriodic, all)
}
