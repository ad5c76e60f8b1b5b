package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/toolsuite/internal/gcp"
	"github.com/Lllllllleong/toolsuite/internal/models"
	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type RunnerConfig struct {
	// OutputBucket receives file results; when empty they are returned inline.
	OutputBucket string
}

// RunnerFunction executes a single tool for an HTTP caller such as a
// workflow step.
type RunnerFunction struct {
	objects  ObjectStore
	registry *registry.Registry
	config   RunnerConfig
}

func NewRunner(ctx context.Context) (*RunnerFunction, error) {
	config := RunnerConfig{OutputBucket: gcp.GetEnv("OUTPUT_BUCKET", "")}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	slog.Info("Tool runner initialized.", "outputBucket", config.OutputBucket)
	return NewRunnerWith(config, gcp.NewStorage(storageClient), registry.Default()), nil
}

func NewRunnerWith(config RunnerConfig, objects ObjectStore, reg *registry.Registry) *RunnerFunction {
	return &RunnerFunction{objects: objects, registry: reg, config: config}
}

// Process runs req.ToolID. Tool failures come back as an ERROR response;
// the returned error is reserved for lookup and storage failures.
func (f *RunnerFunction) Process(ctx context.Context, req *models.ToolRunRequest) (*models.ToolRunResponse, error) {
	logCtx := slog.With("toolId", req.ToolID, "executionId", req.ExecutionID)
	if _, _, err := f.registry.Lookup(req.ToolID); err != nil {
		logCtx.Warn("Requested tool is unavailable.", "error", err)
		return nil, err
	}

	in := tools.Input{Text: req.Text, Params: req.Params}
	for _, file := range req.Files {
		in.Files = append(in.Files, tools.File{Name: file.Name, Data: file.Data})
	}
	fetched, err := f.fetchURIs(ctx, req.InputURIs)
	if err != nil {
		logCtx.Error("Failed to fetch inputs", "error", err)
		return nil, err
	}
	in.Files = append(in.Files, fetched...)

	res := f.registry.Run(ctx, req.ToolID, in)
	resp := &models.ToolRunResponse{
		Status:  "OK",
		Kind:    string(res.Kind),
		Value:   res.Value,
		Message: res.Message,
		Stats:   res.Stats,
	}
	switch res.Kind {
	case tools.KindError:
		resp.Status = "ERROR"
	case tools.KindFile:
		resp.SuggestedName = res.SuggestedName
		resp.MIMEType = res.MIMEType
		if f.config.OutputBucket == "" {
			resp.Data = res.Data
			break
		}
		prefix := req.ExecutionID
		if prefix == "" {
			prefix = uuid.NewString()
		}
		name := path.Join("runs", prefix, path.Base(res.SuggestedName))
		if err := f.objects.Write(ctx, f.config.OutputBucket, name, res.Data, res.MIMEType); err != nil {
			logCtx.Error("Failed to store file result", "error", err)
			return nil, err
		}
		resp.OutputURI = gcp.URI(f.config.OutputBucket, name)
	}
	logCtx.Info("Tool run finished.", "status", resp.Status, "kind", resp.Kind, "outputUri", resp.OutputURI)
	return resp, nil
}

func (f *RunnerFunction) fetchURIs(ctx context.Context, uris []string) ([]tools.File, error) {
	type location struct{ bucket, name string }
	locations := make([]location, len(uris))
	for i, uri := range uris {
		bucket, name, err := gcp.ParseURI(uri)
		if err != nil {
			return nil, tools.InvalidWrap(err, "Invalid input URI %q.", uri)
		}
		locations[i] = location{bucket, name}
	}

	files := make([]tools.File, len(uris))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)
	for i, loc := range locations {
		eg.Go(func() error {
			obj, err := f.objects.Read(gctx, loc.bucket, loc.name)
			if err != nil {
				return err
			}
			files[i] = tools.File{Name: path.Base(loc.name), Data: obj.Data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
