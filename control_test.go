package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptRepeatResult(t *testing.T) {
	cases := []struct {
		name      string
		in        Result
		wantDelay time.Duration
		wantStop  bool
		wantErr   bool
	}{
		{"nil repeats immediately", nil, 0, false, false},
		{"false repeats immediately", false, 0, false, false},
		{"true stops", true, 0, true, false},
		{"zero duration repeats immediately", time.Duration(0), 0, false, false},
		{"positive duration schedules delay", 50 * time.Millisecond, 50 * time.Millisecond, false, false},
		{"negative duration stops", -time.Second, 0, true, false},
		{"float64 zero repeats immediately", float64(0), 0, false, false},
		{"float64 positive schedules seconds", float64(0.25), 250 * time.Millisecond, false, false},
		{"float64 -1 stops", float64(-1), 0, true, false},
		// float32(0.1) is slightly above 0.1, so the truncated delay is 1ns over 100ms.
		{"float32 positive schedules seconds", float32(0.1), 100*time.Millisecond + time.Nanosecond, false, false},
		{"int positive schedules seconds", int(1), time.Second, false, false},
		{"int64 -1 stops", int64(-1), 0, true, false},
		{"negative non-minus-one float is an error", float64(-0.5), 0, false, true},
		{"unsupported type is an error", "nope", 0, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			delay, stop, err := adaptRepeatResult(c.in)
			if c.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.wantDelay, delay)
			assert.Equal(t, c.wantStop, stop)
		})
	}
}

func TestNumberToControl(t *testing.T) {
	d, stop, err := numberToControl(-1)
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Equal(t, time.Duration(0), d)

	d, stop, err = numberToControl(0)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, time.Duration(0), d)

	d, stop, err = numberToControl(2)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, 2*time.Second, d)

	_, _, err = numberToControl(-2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
