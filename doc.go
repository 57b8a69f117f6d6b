// Package task provides cooperatively interruptible, restartable units of
// work, built by chaining actions (Once, Repeated, Periodic, Sleep) into a
// single executable sequence.
//
// A Task moves through a small state machine (CREATED, STARTED, TO_STOP,
// STOPPED, TO_CONTINUE, FINISHED) driven by Start, Stop, Cont, and Join.
// Stop is cooperative: it asks the task's executor to unwind at its next
// suspension point (a wait boundary, or a link boundary) rather than
// killing a goroutine outright, and records exactly how much of any
// in-flight delay went unused so Cont can resume without skipping or
// repeating time.
//
// Tasks compose into trees via StartChild/JoinChild, and into longer
// chains via Append/Concat. Action failures climb through per-link
// exception handlers, then the chain head's, then (recursively) a parent
// task's, before falling back to a default handler that stops the chain
// and records the failure on Task.Err.
package task
