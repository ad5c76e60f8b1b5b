package tools

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session tracks one tool's interaction: the current input, the state of the
// latest invocation and the result it published. Every invocation takes a
// ticket; only the holder of the newest ticket may publish, so a slow stale
// run can never overwrite the result of a run started after it.
type Session struct {
	ID     string
	ToolID string

	tool Tool

	mu        sync.Mutex
	state     State
	input     Input
	ticket    uint64
	result    *Result
	updatedAt time.Time
}

// Snapshot is a read-only view of a Session.
type Snapshot struct {
	ID        string    `json:"id" msgpack:"id"`
	ToolID    string    `json:"toolId" msgpack:"toolId"`
	State     State     `json:"state" msgpack:"state"`
	Ticket    uint64    `json:"ticket" msgpack:"ticket"`
	HasResult bool      `json:"hasResult" msgpack:"hasResult"`
	Result    *Result   `json:"result,omitempty" msgpack:"result,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" msgpack:"updatedAt"`
}

func NewSession(id, toolID string, t Tool) *Session {
	return &Session{ID: id, ToolID: toolID, tool: t, state: Idle, updatedAt: time.Now()}
}

// SetInput replaces the held input. Any in-flight invocation becomes stale.
func (s *Session) SetInput(in Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Next(SelectInput)
	if err != nil {
		return err
	}
	s.ticket++
	s.state = next
	s.input = in.Clone()
	s.result = nil
	s.updatedAt = time.Now()
	return nil
}

// Invoke runs the tool on the held input. The returned bool reports whether
// this invocation's result was published as the session's current result.
func (s *Session) Invoke(ctx context.Context) (Result, bool, error) {
	s.mu.Lock()
	next, err := s.state.Next(Invoke)
	if err != nil {
		s.mu.Unlock()
		return Result{}, false, err
	}
	s.ticket++
	ticket := s.ticket
	in := s.input.Clone()
	s.state = next
	s.updatedAt = time.Now()
	s.mu.Unlock()

	res := Execute(ctx, s.tool, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.ticket {
		slog.Debug("Discarding stale tool result.", "sessionId", s.ID, "ticket", ticket, "latest", s.ticket)
		return res, false, nil
	}
	if ctx.Err() != nil {
		s.state, _ = s.state.Next(Abandon)
		s.updatedAt = time.Now()
		return res, false, nil
	}
	ev := Succeed
	if res.Kind == KindError {
		ev = Fail
	}
	s.state, _ = s.state.Next(ev)
	s.result = &res
	s.updatedAt = time.Now()
	return res, true, nil
}

// Result returns the published result, if any, with the ticket of the
// invocation that produced it.
func (s *Session) Result() (Result, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, 0, false
	}
	return *s.result, s.ticket, true
}

// Release drops the published result buffer once it has been handed off.
// The input is kept so the tool can be run again.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

// ReleaseIf releases the result only while ticket is still the latest, so a
// finished download cannot discard a result published after it started.
func (s *Session) ReleaseIf(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.ticket || s.result == nil {
		return false
	}
	s.release()
	return true
}

func (s *Session) release() {
	if s.result == nil {
		return
	}
	s.result = nil
	if s.state == HasResult || s.state == Failed {
		s.state = HasInput
	}
	s.updatedAt = time.Now()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.ID,
		ToolID:    s.ToolID,
		State:     s.state,
		Ticket:    s.ticket,
		HasResult: s.result != nil,
		UpdatedAt: s.updatedAt,
	}
	if s.result != nil && s.result.Kind != KindFile {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
