package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestException_ClimbsFromLinkToChainHead(t *testing.T) {
	boom := errors.New("boom")
	var headHandlerSawErr error

	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	tk.Configure(WithExcHandler(func(err error, _ Args, _ KWArgs) error {
		headHandlerSawErr = err
		return nil
	}))
	second := Once(func(Args, KWArgs) (Result, error) {
		return nil, boom
	})
	tk.Append(second)

	tk.Start(0, false)
	tk.Join()

	assert.Equal(t, StateFinished, tk.State())
	assert.ErrorIs(t, headHandlerSawErr, boom, "second link's failure must climb to the chain head's handler")
	assert.NoError(t, tk.Err())
}

func TestException_ClimbsFromChildToParentHead(t *testing.T) {
	boom := errors.New("boom")
	var parentHandlerSawErr error
	childDone := make(chan struct{})

	child := Once(func(Args, KWArgs) (Result, error) {
		return nil, boom
	})

	var parent *Task
	parent = Once(func(Args, KWArgs) (Result, error) {
		parent.StartChild(child, 0, false)
		parent.JoinChild(child)
		close(childDone)
		return nil, nil
	}, WithExcHandler(func(err error, _ Args, _ KWArgs) error {
		parentHandlerSawErr = err
		return nil
	}))

	parent.Start(0, false)
	<-childDone
	parent.Join()

	assert.ErrorIs(t, parentHandlerSawErr, boom, "a child with no handler of its own must climb to its parent's chain head")
	assert.Equal(t, StateFinished, child.State(), "a swallowing ancestor handler lets the child's own chain proceed to completion")
	assert.NoError(t, child.Err())
}

func TestException_DefaultHandlerCascadesStopToChildren(t *testing.T) {
	boom := errors.New("boom")
	childRunning := make(chan struct{})
	release := make(chan struct{})

	child := Once(func(Args, KWArgs) (Result, error) {
		close(childRunning)
		<-release
		return nil, nil
	})

	var parent *Task
	parent = Once(func(Args, KWArgs) (Result, error) {
		parent.StartChild(child, 0, false)
		return nil, boom
	})

	parent.Start(0, false)
	<-childRunning
	parent.Join()

	require.Equal(t, StateStopped, parent.State())
	close(release)
	child.Join()
	assert.Equal(t, StateStopped, child.State(), "an unhandled exception on the parent must cascade Stop to its own children")
}

func TestException_HandlerPanicIsTreatedAsReraise(t *testing.T) {
	boom := errors.New("boom")
	tk := Once(func(Args, KWArgs) (Result, error) {
		return nil, boom
	}, WithExcHandler(func(error, Args, KWArgs) error {
		panic("handler exploded")
	}))

	tk.Start(0, false)
	tk.Join()

	assert.Equal(t, StateStopped, tk.State())
	var actionErr *ActionError
	require.ErrorAs(t, tk.Err(), &actionErr)
	var panicErr *PanicError
	require.ErrorAs(t, actionErr, &panicErr)
	assert.Equal(t, "handler exploded", panicErr.Value)
}

func TestException_OnStopHookPanicIsRecordedButDoesNotBlockStop(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) {
		return nil, nil
	}, WithDuration(200*time.Millisecond), WithOnStop(func(Args, KWArgs) {
		panic("hook exploded")
	}))

	tk.Start(0, false)
	time.Sleep(20 * time.Millisecond)
	tk.Stop()
	tk.Join()

	assert.Equal(t, StateStopped, tk.State())
	var actionErr *ActionError
	require.ErrorAs(t, tk.Err(), &actionErr)
	var panicErr *PanicError
	require.ErrorAs(t, actionErr, &panicErr)
	assert.Equal(t, "hook exploded", panicErr.Value)
}
