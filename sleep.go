package task

import "time"

// Sleep builds a task that does nothing but wait d before finishing (or
// before running whatever's been Appended after it). It runs exactly like
// Once with a no-op action and is kept as its own constructor for
// readability at call sites; Task.Len, LinkDurations, and log output treat
// it the same as any other link.
func Sleep(d time.Duration, opts ...Option) *Task {
	noop := func(Args, KWArgs) (Result, error) { return nil, nil }
	all := append([]Option{WithDuration(d)}, opts...)
	return newTask(noop, kindSleep, all)
}
