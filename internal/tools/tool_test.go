package tools

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputAccessors(t *testing.T) {
	in := Input{Params: map[string]string{
		"quality": "80",
		"ratio":   "1.5",
		"whole":   "12.0",
		"flag":    "true",
		"bad":     "abc",
		"blank":   "  ",
	}}

	n, err := in.Int("quality", 0)
	require.NoError(t, err)
	assert.Equal(t, 80, n)

	n, err = in.Int("whole", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = in.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = in.Int("bad", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f, err := in.Float("ratio", 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-9)

	for _, raw := range []string{"Inf", "-Inf", "NaN", "1e300"} {
		nonFinite := Input{Params: map[string]string{"v": raw}}
		_, err = nonFinite.Int("v", 0)
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
		if raw != "1e300" {
			_, err = nonFinite.Float("v", 0)
			assert.ErrorIs(t, err, ErrInvalidInput, raw)
		}
	}

	assert.True(t, in.Bool("flag", false))
	assert.True(t, in.Bool("bad", true))
	assert.Equal(t, "dflt", in.String("blank", "dflt"))
}

func TestLoaderInitializesOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLoader(func() (string, error) {
		calls.Add(1)
		return "engine", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.Get()
			assert.NoError(t, err)
			assert.Equal(t, "engine", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoaderCachesFailure(t *testing.T) {
	var calls atomic.Int32
	l := NewLoader(func() (int, error) {
		calls.Add(1)
		return 0, errors.New("unavailable")
	})
	_, err := l.Get()
	require.Error(t, err)
	_, err = l.Get()
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Panics(t, func() { l.MustGet() })
}
