// Package tools defines the contract shared by every transformation in the
// suite: the input set a tool receives, the result it produces, and the
// per-tool session that tracks invocation state.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// File is one fully buffered user-supplied file.
type File struct {
	Name string
	Data []byte
}

// Input is everything a tool invocation receives. Params hold raw field
// values; tools parse them with the typed accessors below.
type Input struct {
	Files  []File
	Text   string
	Params map[string]string
}

// Clone returns a deep copy so that an invocation owns its buffers.
func (in Input) Clone() Input {
	out := Input{Text: in.Text}
	if len(in.Files) > 0 {
		out.Files = make([]File, len(in.Files))
		for i, f := range in.Files {
			out.Files[i] = File{Name: f.Name, Data: append([]byte(nil), f.Data...)}
		}
	}
	if in.Params != nil {
		out.Params = make(map[string]string, len(in.Params))
		for k, v := range in.Params {
			out.Params[k] = v
		}
	}
	return out
}

// Has reports whether the input carries anything to work on.
func (in Input) Has() bool {
	return len(in.Files) > 0 || in.Text != "" || len(in.Params) > 0
}

func (in Input) String(key, def string) string {
	if v, ok := in.Params[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (in Input) Int(key string, def int) (int, error) {
	raw := in.String(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Accept "12.0" style values coming from numeric form fields.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
			return 0, Invalid("%s must be a whole number", key)
		}
		return int(f), nil
	}
	return n, nil
}

func (in Input) Float(key string, def float64) (float64, error) {
	raw := in.String(key, "")
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, Invalid("%s must be a number", key)
	}
	return f, nil
}

func (in Input) Bool(key string, def bool) bool {
	raw := in.String(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// Kind discriminates the three result variants.
type Kind string

const (
	KindFile  Kind = "file"
	KindText  Kind = "text"
	KindError Kind = "error"
)

// Result is the output of one invocation. Data, SuggestedName and MIMEType
// are set for file results, Value for text results and Message for errors.
type Result struct {
	Kind          Kind           `json:"kind" msgpack:"kind"`
	Data          []byte         `json:"-" msgpack:"data,omitempty"`
	SuggestedName string         `json:"suggestedName,omitempty" msgpack:"suggestedName,omitempty"`
	MIMEType      string         `json:"mimeType,omitempty" msgpack:"mimeType,omitempty"`
	Value         string         `json:"value,omitempty" msgpack:"value,omitempty"`
	Message       string         `json:"message,omitempty" msgpack:"message,omitempty"`
	Stats         map[string]any `json:"stats,omitempty" msgpack:"stats,omitempty"`
}

func FileResult(data []byte, name, mimeType string) Result {
	return Result{Kind: KindFile, Data: data, SuggestedName: name, MIMEType: mimeType}
}

func TextResult(value string) Result {
	return Result{Kind: KindText, Value: value}
}

func ErrorResult(message string) Result {
	return Result{Kind: KindError, Message: message}
}

// WithStats attaches auxiliary figures (sizes, counts) to a result.
func (r Result) WithStats(stats map[string]any) Result {
	r.Stats = stats
	return r
}

// Tool is one executable transformation.
type Tool interface {
	Run(ctx context.Context, in Input) (Result, error)
}

// Func adapts a plain function to Tool.
type Func func(ctx context.Context, in Input) (Result, error)

func (f Func) Run(ctx context.Context, in Input) (Result, error) {
	return f(ctx, in)
}

// Execute runs t and folds every failure, including panics raised inside
// codec libraries, into an error Result.
func Execute(ctx context.Context, t Tool, in Input) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked during execution.", "panic", fmt.Sprint(r))
			res = ErrorResult("The input could not be processed.")
		}
	}()
	if err := ctx.Err(); err != nil {
		return ErrorResult(Message(err))
	}
	out, err := t.Run(ctx, in)
	if err != nil {
		return ErrorResult(Message(err))
	}
	return out
}
