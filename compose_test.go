package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_RejectsNilOther(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	tk.Append(nil)
	assert.ErrorIs(t, tk.Err(), ErrInvalidArgument)
}

func TestAppend_RejectsSelf(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	tk.Append(tk)
	assert.ErrorIs(t, tk.Err(), ErrInvalidArgument)
}

func TestAppend_RejectsAlreadyConsumed(t *testing.T) {
	a := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	b := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	c := Once(func(Args, KWArgs) (Result, error) { return nil, nil })

	a.Append(b)
	require.NoError(t, a.Err())

	c.Append(b)
	assert.ErrorIs(t, c.Err(), ErrInvalidArgument)
}

func TestAppend_RejectsOtherInWrongState(t *testing.T) {
	release := make(chan struct{})
	a := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	b := Once(func(Args, KWArgs) (Result, error) {
		<-release
		return nil, nil
	})

	b.Start(0, false)
	defer func() {
		close(release)
		b.Join()
	}()

	a.Append(b)
	assert.ErrorIs(t, a.Err(), ErrInvalidState)
}

func TestAppend_ThreeDeep_LenAndLinkDurations(t *testing.T) {
	a := Once(func(Args, KWArgs) (Result, error) { return nil, nil }, WithDuration(10*time.Millisecond))
	b := Once(func(Args, KWArgs) (Result, error) { return nil, nil }, WithDuration(20*time.Millisecond))
	c := Once(func(Args, KWArgs) (Result, error) { return nil, nil }, WithDuration(30*time.Millisecond))

	a.Append(b).Append(c)
	require.NoError(t, a.Err())

	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 60*time.Millisecond, a.LinkDurations())
}

func TestConcat_EmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Concat())
}

func TestConcat_SingleReturnsItself(t *testing.T) {
	a := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	require.Same(t, a, Concat(a))
}
