package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_AppliesOptionsWhileCreated(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	require.NoError(t, tk.Configure(WithDuration(30*time.Millisecond), WithName("widget")))

	assert.Equal(t, 30*time.Millisecond, tk.Duration())
	assert.Equal(t, "widget", tk.Name())
}

func TestConfigure_RejectedWhileRunning(t *testing.T) {
	release := make(chan struct{})
	tk := Once(func(Args, KWArgs) (Result, error) {
		<-release
		return nil, nil
	})
	tk.Start(0, false)
	defer func() {
		close(release)
		tk.Join()
	}()

	err := tk.Configure(WithDuration(time.Second))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfigure_AllowedAgainAfterFinished(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	tk.Start(0, false)
	tk.Join()
	require.Equal(t, StateFinished, tk.State())

	require.NoError(t, tk.Configure(WithDuration(15*time.Millisecond)))
	assert.Equal(t, 15*time.Millisecond, tk.Duration())
}

func TestArgsAndKWArgs_ReturnIndependentCopies(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil },
		WithArgs(1, 2), WithKWArgs(KWArgs{"a": 1}))

	args := tk.Args()
	args[0] = 99
	assert.Equal(t, Args{1, 2}, tk.Args(), "mutating a returned copy must not affect the stored args")

	kw := tk.KWArgs()
	kw["a"] = 100
	assert.Equal(t, KWArgs{"a": 1}, tk.KWArgs(), "mutating a returned copy must not affect the stored kwargs")
}

func TestLen_SingleLinkByDefault(t *testing.T) {
	tk := Once(func(Args, KWArgs) (Result, error) { return nil, nil })
	assert.Equal(t, 1, tk.Len())
	assert.Equal(t, time.Duration(0), tk.LinkDurations())
}
