package services

import (
	"context"

	"github.com/Lllllllleong/toolsuite/internal/gcp"
	"github.com/Lllllllleong/toolsuite/internal/models"
)

// ObjectStore is the slice of GCS the services need.
type ObjectStore interface {
	Read(ctx context.Context, bucket, name string) (*gcp.Object, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	// Write must treat an already existing object as success.
	Write(ctx context.Context, bucket, name string, data []byte, contentType string) error
}

// JobStore persists batch job records.
type JobStore interface {
	FindActive(ctx context.Context, inputHash string) (string, bool, error)
	Create(ctx context.Context, job models.Job) (string, error)
	Update(ctx context.Context, jobID string, fields map[string]any) error
}

// WorkflowStarter hands a finished job to a downstream workflow.
type WorkflowStarter interface {
	Start(ctx context.Context, argument any) (string, error)
}
