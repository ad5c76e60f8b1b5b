package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Lllllllleong/toolsuite/internal/gcp"
	"github.com/Lllllllleong/toolsuite/internal/models"
)

var errNotFound = errors.New("object not found")

type memObjects struct {
	mu         sync.Mutex
	objects    map[string]*gcp.Object
	failWrites int
	writes     int
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string]*gcp.Object{}}
}

func (m *memObjects) put(bucket, name string, data []byte, metadata map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[gcp.URI(bucket, name)] = &gcp.Object{Bucket: bucket, Name: name, Data: data, Metadata: metadata}
}

func (m *memObjects) get(uri string) (*gcp.Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[uri]
	return obj, ok
}

func (m *memObjects) Read(ctx context.Context, bucket, name string) (*gcp.Object, error) {
	obj, ok := m.get(gcp.URI(bucket, name))
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNotFound)
	}
	return obj, nil
}

func (m *memObjects) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, obj := range m.objects {
		if obj.Bucket == bucket && strings.HasPrefix(obj.Name, prefix) {
			names = append(names, obj.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memObjects) Write(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrites > 0 {
		m.failWrites--
		return errors.New("transient write failure")
	}
	uri := gcp.URI(bucket, name)
	if _, exists := m.objects[uri]; exists {
		return nil
	}
	m.objects[uri] = &gcp.Object{Bucket: bucket, Name: name, ContentType: contentType, Data: data}
	return nil
}

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
	seq  int
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[string]*models.Job{}}
}

func (m *memJobs) FindActive(ctx context.Context, inputHash string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		if job.InputHash == inputHash && job.Status != models.StatusFailed {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (m *memJobs) Create(ctx context.Context, job models.Job) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("job-%d", m.seq)
	m.jobs[id] = &job
	return id, nil
}

func (m *memJobs) Update(ctx context.Context, jobID string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("no job %s", jobID)
	}
	for k, v := range fields {
		switch k {
		case "status":
			job.Status = v.(string)
		case "errorDetails":
			job.ErrorDetails = v.(string)
		case "resultKind":
			job.ResultKind = v.(string)
		case "outputUri":
			job.OutputURI = v.(string)
		case "stats":
			job.Stats = v.(map[string]any)
		case "workflowExecutionId":
			job.WorkflowExecutionID = v.(string)
		default:
			return fmt.Errorf("unexpected field %s", k)
		}
	}
	return nil
}

func (m *memJobs) only() (string, models.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		return id, *job
	}
	return "", models.Job{}
}

func (m *memJobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type recordingWorkflow struct {
	args []any
	err  error
}

func (w *recordingWorkflow) Start(ctx context.Context, argument any) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.args = append(w.args, argument)
	return fmt.Sprintf("executions/%d", len(w.args)), nil
}
