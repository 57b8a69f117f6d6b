package task

import (
	"fmt"
	"time"
)

// RepeatPolicy configures a Repeated task: how many times it may fire
// before being forced to stop, independent of what the action returns.
type RepeatPolicy struct {
	// Num is the invocation cap. Zero or negative means uncapped.
	Num int
}

// PeriodicPolicy configures a Periodic task: a fixed inter-invocation
// delay plus the same invocation cap Repeated has.
type PeriodicPolicy struct {
	// Interval is the fixed delay applied after every invocation.
	Interval time.Duration
	// Num is the invocation cap. Zero or negative means uncapped.
	Num int
}

// adaptRepeatResult implements the Repeated/Periodic return-value
// protocol: a positive number of seconds (as time.Duration, float64, or
// int) schedules the next delay; 0, false, or nil repeats immediately; -1
// (or any negative time.Duration) or true ends the loop. Anything else is
// caller misuse.
func adaptRepeatResult(v Result) (delay time.Duration, stop bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case bool:
		return 0, x, nil
	case time.Duration:
		if x < 0 {
			return 0, true, nil
		}
		return x, false, nil
	case float64:
		return numberToControl(x)
	case float32:
		return numberToControl(float64(x))
	case int:
		return numberToControl(float64(x))
	case int64:
		return numberToControl(float64(x))
	default:
		return 0, false, invalidArgument("Repeated action return value",
			fmt.Sprintf("unsupported type %T (want nil, bool, time.Duration, or a number of seconds)", v))
	}
}

func numberToControl(seconds float64) (time.Duration, bool, error) {
	switch {
	case seconds == -1:
		return 0, true, nil
	case seconds < 0:
		return 0, false, invalidArgument("Repeated action return value",
			fmt.Sprintf("negative delay %v is not -1 (stop) or >= 0 (delay)", seconds))
	case seconds == 0:
		return 0, false, nil
	default:
		return time.Duration(seconds * float64(time.Second)), false, nil
	}
}
