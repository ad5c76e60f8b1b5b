package tools

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() Tool {
	return Func(func(ctx context.Context, in Input) (Result, error) {
		return TextResult(in.Text), nil
	})
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("s1", "echo", echoTool())
	assert.Equal(t, Idle, s.State())

	_, _, err := s.Invoke(context.Background())
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.SetInput(Input{Text: "hello"}))
	assert.Equal(t, HasInput, s.State())

	res, published, err := s.Invoke(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	assert.Equal(t, "hello", res.Value)
	assert.Equal(t, HasResult, s.State())

	got, ticket, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "hello", got.Value)
	assert.Equal(t, uint64(2), ticket)

	s.Release()
	_, _, ok = s.Result()
	assert.False(t, ok)
	assert.Equal(t, HasInput, s.State())
}

func TestSessionFailureState(t *testing.T) {
	failing := Func(func(ctx context.Context, in Input) (Result, error) {
		return Result{}, Invalid("Invalid base64 input.")
	})
	s := NewSession("s2", "fail", failing)
	require.NoError(t, s.SetInput(Input{Text: "x"}))

	res, published, err := s.Invoke(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, "Invalid base64 input.", res.Message)
	assert.Equal(t, Failed, s.State())

	require.NoError(t, s.SetInput(Input{Text: "y"}))
	assert.Equal(t, HasInput, s.State())
}

func TestSessionNewestStartedWins(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	slowFirst := Func(func(ctx context.Context, in Input) (Result, error) {
		if calls.Add(1) == 1 {
			<-release
			return TextResult("stale"), nil
		}
		return TextResult("fresh"), nil
	})

	s := NewSession("s3", "slow", slowFirst)
	require.NoError(t, s.SetInput(Input{Text: "x"}))

	var wg sync.WaitGroup
	var stalePublished bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, stalePublished, _ = s.Invoke(context.Background())
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	res, published, err := s.Invoke(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	assert.Equal(t, "fresh", res.Value)

	close(release)
	wg.Wait()
	assert.False(t, stalePublished)

	got, _, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Value)
	assert.Equal(t, HasResult, s.State())
}

func TestSessionNewInputDiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := Func(func(ctx context.Context, in Input) (Result, error) {
		close(started)
		<-release
		return TextResult(in.Text), nil
	})
	s := NewSession("s4", "block", blocking)
	require.NoError(t, s.SetInput(Input{Text: "old"}))

	done := make(chan bool)
	go func() {
		_, published, _ := s.Invoke(context.Background())
		done <- published
	}()
	<-started
	require.NoError(t, s.SetInput(Input{Text: "new"}))
	close(release)

	assert.False(t, <-done)
	_, _, ok := s.Result()
	assert.False(t, ok)
	assert.Equal(t, HasInput, s.State())
}

func TestSessionReleaseIfKeepsNewerResult(t *testing.T) {
	var calls atomic.Int32
	counting := Func(func(ctx context.Context, in Input) (Result, error) {
		if calls.Add(1) == 1 {
			return TextResult("first"), nil
		}
		return TextResult("second"), nil
	})
	s := NewSession("s6", "count", counting)
	require.NoError(t, s.SetInput(Input{Text: "x"}))

	_, _, err := s.Invoke(context.Background())
	require.NoError(t, err)
	downloaded, ticket, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "first", downloaded.Value)

	// A re-run publishes while the first result is still being sent.
	_, published, err := s.Invoke(context.Background())
	require.NoError(t, err)
	require.True(t, published)

	assert.False(t, s.ReleaseIf(ticket))
	got, latest, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "second", got.Value)
	assert.Equal(t, HasResult, s.State())

	assert.True(t, s.ReleaseIf(latest))
	_, _, ok = s.Result()
	assert.False(t, ok)
	assert.Equal(t, HasInput, s.State())
}

func TestSessionOwnsInputCopy(t *testing.T) {
	data := []byte("abc")
	s := NewSession("s5", "len", Func(func(ctx context.Context, in Input) (Result, error) {
		return TextResult(string(in.Files[0].Data)), nil
	}))
	require.NoError(t, s.SetInput(Input{Files: []File{{Name: "a", Data: data}}}))
	data[0] = 'z'

	res, _, err := s.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Value)
}

func TestSessionAbandonedContext(t *testing.T) {
	s := NewSession("s6", "echo", echoTool())
	require.NoError(t, s.SetInput(Input{Text: "x"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, published, err := s.Invoke(ctx)
	require.NoError(t, err)
	assert.False(t, published)
	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, HasInput, s.State())
}

func TestExecuteRecoversPanics(t *testing.T) {
	boom := Func(func(ctx context.Context, in Input) (Result, error) {
		panic("codec exploded")
	})
	res := Execute(context.Background(), boom, Input{})
	assert.Equal(t, KindError, res.Kind)
	assert.NotEmpty(t, res.Message)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Tool not found", Message(ErrToolNotFound))
	assert.Equal(t, "This tool is coming soon.", Message(ErrComingSoon))
	assert.Equal(t, "bad thing", Message(Invalid("bad thing")))
	wrapped := InvalidWrap(errors.New("eof"), "Corrupt PDF.")
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
	assert.Equal(t, "Corrupt PDF.", Message(wrapped))
}
