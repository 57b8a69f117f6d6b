package task

import "sync/atomic"

// nextTaskID is the process-wide monotonic counter backing task
// identifiers. atomic.Uint64 gives the increment-and-read guarantee a
// counter behind a mutex would, without the separate mutex.
var nextTaskID atomic.Uint64

func allocTaskID() uint64 {
	return nextTaskID.Add(1)
}
