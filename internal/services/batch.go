package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/toolsuite/internal/gcp"
	"github.com/Lllllllleong/toolsuite/internal/models"
	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"golang.org/x/sync/errgroup"
)

const (
	manifestSuffix = ".manifest.json"
	paramPrefix    = "param-"
)

type BatchConfig struct {
	ProjectID        string
	OutputBucket     string
	CollectionName   string
	WorkflowID       string
	WorkflowLocation string
}

// BatchTransformer runs a tool over every object uploaded to the input
// bucket. The first path segment of the object name selects the tool.
type BatchTransformer struct {
	objects  ObjectStore
	jobs     JobStore
	workflow WorkflowStarter
	registry *registry.Registry
	config   BatchConfig

	maxRetries   int
	retryBackoff time.Duration
}

type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

func NewBatchTransformer(ctx context.Context) (*BatchTransformer, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := BatchConfig{
		ProjectID:        projectID,
		OutputBucket:     gcp.GetEnv("OUTPUT_BUCKET", ""),
		CollectionName:   gcp.GetEnv("FIRESTORE_COLLECTION", "jobs"),
		WorkflowLocation: gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
		WorkflowID:       gcp.GetEnv("WORKFLOW_ID", ""),
	}
	if config.OutputBucket == "" {
		return nil, fmt.Errorf("OUTPUT_BUCKET environment variable must be set")
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	var workflow WorkflowStarter
	if config.WorkflowID != "" {
		launcher, err := gcp.NewWorkflowLauncher(ctx, config.ProjectID, config.WorkflowLocation, config.WorkflowID)
		if err != nil {
			return nil, err
		}
		workflow = launcher
	}

	f := NewBatchTransformerWith(config, gcp.NewStorage(storageClient), gcp.NewJobStore(firestoreClient, config.CollectionName), workflow, registry.Default())
	slog.Info("Batch transformer initialized.", "outputBucket", config.OutputBucket, "workflowId", config.WorkflowID)
	return f, nil
}

// NewBatchTransformerWith assembles a transformer from explicit
// dependencies. workflow may be nil.
func NewBatchTransformerWith(config BatchConfig, objects ObjectStore, jobs JobStore, workflow WorkflowStarter, reg *registry.Registry) *BatchTransformer {
	return &BatchTransformer{
		objects:      objects,
		jobs:         jobs,
		workflow:     workflow,
		registry:     reg,
		config:       config,
		maxRetries:   4,
		retryBackoff: time.Second,
	}
}

// Process handles one object-finalized event. Events that can never
// succeed (unknown tool, malformed manifest) are logged and acknowledged;
// only infrastructure failures are returned so the platform retries them.
func (f *BatchTransformer) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	logCtx.Info("Processing new GCS object.")

	toolID, rest, ok := strings.Cut(e.Name, "/")
	if !ok || rest == "" || strings.HasSuffix(rest, "/") {
		logCtx.Info("Object is not below a tool folder. Skipping.")
		return nil
	}
	logCtx = logCtx.With("toolId", toolID)
	if _, _, err := f.registry.Lookup(toolID); err != nil {
		logCtx.Warn("Object names an unavailable tool. Skipping.", "error", err)
		return nil
	}

	src, err := f.objects.Read(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("Failed to download source object", "error", err)
		return err
	}

	in, err := f.buildInput(ctx, src)
	if err != nil {
		var invalid *tools.InputError
		if errors.As(err, &invalid) {
			logCtx.Warn("Source object is not a usable input. Skipping.", "error", err)
			return nil
		}
		logCtx.Error("Failed to assemble tool input", "error", err)
		return err
	}

	inputHash := InputHash(toolID, in)
	logCtx = logCtx.With("inputHash", inputHash)

	existingID, isDuplicate, err := f.jobs.FindActive(ctx, inputHash)
	if err != nil {
		logCtx.Error("Failed to check for duplicate", "error", err)
		return err
	}
	if isDuplicate {
		logCtx.Info("Duplicate input detected. Skipping.", "existingJobId", existingID)
		return nil
	}

	now := time.Now()
	jobID, err := f.jobs.Create(ctx, models.Job{
		ToolID:       toolID,
		InputHash:    inputHash,
		SourceBucket: e.Bucket,
		SourceObject: e.Name,
		InputCount:   len(in.Files),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logCtx.Error("Failed to create job record", "error", err)
		return err
	}
	logCtx = logCtx.With("jobId", jobID)
	logCtx.Info("Created job record in Firestore.")

	if err := f.jobs.Update(ctx, jobID, map[string]any{"status": models.StatusProcessing}); err != nil {
		return f.handleError(ctx, logCtx, jobID, "failed to update status to PROCESSING", err)
	}

	res := f.registry.Run(ctx, toolID, in)
	if res.Kind == tools.KindError {
		// Deterministic; a retry would produce the same result.
		_ = f.handleError(ctx, logCtx, jobID, "tool returned an error", errors.New(res.Message))
		return nil
	}

	outputURI, err := f.saveResult(ctx, logCtx, jobID, res)
	if err != nil {
		return f.handleError(ctx, logCtx, jobID, "failed to save result", err)
	}

	updates := map[string]any{
		"status":     models.StatusSucceeded,
		"resultKind": string(res.Kind),
		"outputUri":  outputURI,
	}
	if stats := normalizeStats(res.Stats); stats != nil {
		updates["stats"] = stats
	}
	if err := f.jobs.Update(ctx, jobID, updates); err != nil {
		return f.handleError(ctx, logCtx, jobID, "failed to update status to SUCCEEDED", err)
	}
	logCtx.Info("Job completed.", "outputUri", outputURI)

	if f.workflow != nil {
		if err := f.triggerWorkflow(ctx, logCtx, jobID, toolID, outputURI); err != nil {
			return err
		}
	}
	return nil
}

// buildInput turns the source object into a tool input. Plain objects are
// a single file; manifests expand into several.
func (f *BatchTransformer) buildInput(ctx context.Context, src *gcp.Object) (tools.Input, error) {
	in := tools.Input{Params: metadataParams(src.Metadata)}
	if !strings.HasSuffix(src.Name, manifestSuffix) {
		in.Files = []tools.File{{Name: path.Base(src.Name), Data: src.Data}}
		return in, nil
	}

	var m models.Manifest
	if err := json.Unmarshal(src.Data, &m); err != nil {
		return tools.Input{}, tools.InvalidWrap(err, "Manifest is not valid JSON.")
	}
	in.Text = m.Text
	for k, v := range m.Params {
		in.Params[k] = v
	}

	names := append([]string(nil), m.Files...)
	if m.Prefix != "" {
		listed, err := f.objects.List(ctx, src.Bucket, m.Prefix)
		if err != nil {
			return tools.Input{}, err
		}
		for _, name := range listed {
			if name != src.Name && !strings.HasSuffix(name, manifestSuffix) {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 && in.Text == "" {
		return tools.Input{}, tools.Invalid("Manifest lists no inputs.")
	}

	files, err := f.fetchAll(ctx, src.Bucket, names)
	if err != nil {
		return tools.Input{}, err
	}
	in.Files = files
	return in, nil
}

// fetchAll downloads names concurrently, keeping their order.
func (f *BatchTransformer) fetchAll(ctx context.Context, bucket string, names []string) ([]tools.File, error) {
	files := make([]tools.File, len(names))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)
	for i, name := range names {
		eg.Go(func() error {
			obj, err := f.objects.Read(gctx, bucket, name)
			if err != nil {
				return fmt.Errorf("input %s: %w", name, err)
			}
			files[i] = tools.File{Name: path.Base(name), Data: obj.Data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (f *BatchTransformer) saveResult(ctx context.Context, logCtx *slog.Logger, jobID string, res tools.Result) (string, error) {
	name := path.Join(jobID, "result.txt")
	data := []byte(res.Value)
	contentType := "text/plain; charset=utf-8"
	if res.Kind == tools.KindFile {
		name = path.Join(jobID, path.Base(res.SuggestedName))
		data = res.Data
		contentType = res.MIMEType
	}
	if err := f.uploadWithRetry(ctx, name, data, contentType); err != nil {
		return "", err
	}
	logCtx.Info("Result uploaded.", "gcsObject", name, "bytes", len(data))
	return gcp.URI(f.config.OutputBucket, name), nil
}

func (f *BatchTransformer) uploadWithRetry(ctx context.Context, name string, data []byte, contentType string) error {
	backoff := f.retryBackoff
	var lastErr error

	for i := 0; i < f.maxRetries; i++ {
		writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
		err := f.objects.Write(writeCtx, f.config.OutputBucket, name, data, contentType)
		cancel()
		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", name,
			"attempt", i+1,
			"maxRetries", f.maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", name, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "gcsObject", name, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", name, lastErr)
}

func (f *BatchTransformer) triggerWorkflow(ctx context.Context, logCtx *slog.Logger, jobID, toolID, outputURI string) error {
	logCtx.Info("Triggering workflow.")
	execution, err := f.workflow.Start(ctx, models.WorkflowArgument{JobID: jobID, ToolID: toolID, OutputURI: outputURI})
	if err != nil {
		return f.handleError(ctx, logCtx, jobID, "failed to trigger workflow execution", err)
	}
	if err := f.jobs.Update(ctx, jobID, map[string]any{"workflowExecutionId": execution}); err != nil {
		logCtx.Error("Failed to record workflow execution.", "execution", execution, "error", err)
	}
	return nil
}

func (f *BatchTransformer) handleError(ctx context.Context, logCtx *slog.Logger, jobID, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	updates := map[string]any{"status": models.StatusFailed, "errorDetails": fullError}
	if err := f.jobs.Update(ctx, jobID, updates); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s", fullError)
}

// metadataParams lifts param-* object metadata into tool parameters.
func metadataParams(metadata map[string]string) map[string]string {
	params := map[string]string{}
	for k, v := range metadata {
		if name, ok := strings.CutPrefix(strings.ToLower(k), paramPrefix); ok && name != "" {
			params[name] = v
		}
	}
	return params
}

// InputHash identifies a tool invocation by everything that can change its
// output: the tool, its parameters, its text and its files in order.
func InputHash(toolID string, in tools.Input) string {
	h := sha256.New()
	field := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	field([]byte(toolID))
	keys := make([]string, 0, len(in.Params))
	for k := range in.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field([]byte(k))
		field([]byte(in.Params[k]))
	}
	field([]byte(in.Text))
	for _, file := range in.Files {
		field([]byte(file.Name))
		field(file.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeStats converts tool stats into plain JSON values Firestore can store.
func normalizeStats(stats map[string]any) map[string]any {
	if len(stats) == 0 {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
