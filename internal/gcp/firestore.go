package gcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/toolsuite/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// JobStore keeps batch job records in one Firestore collection.
type JobStore struct {
	client     *firestore.Client
	collection string
}

func NewJobStore(client *firestore.Client, collection string) *JobStore {
	return &JobStore{client: client, collection: collection}
}

// FindActive returns the id of a job with the same input hash that has not
// failed.
func (s *JobStore) FindActive(ctx context.Context, inputHash string) (string, bool, error) {
	docs, err := s.client.Collection(s.collection).Where("inputHash", "==", inputHash).Limit(10).Documents(ctx).GetAll()
	if err != nil {
		return "", false, fmt.Errorf("failed to query for duplicates: %w", err)
	}
	for _, doc := range docs {
		var job models.Job
		if err := doc.DataTo(&job); err != nil {
			return "", false, fmt.Errorf("failed to decode job %s: %w", doc.Ref.ID, err)
		}
		if job.Status != models.StatusFailed {
			return doc.Ref.ID, true, nil
		}
	}
	return "", false, nil
}

func (s *JobStore) Create(ctx context.Context, job models.Job) (string, error) {
	docRef, _, err := s.client.Collection(s.collection).Add(ctx, job)
	if err != nil {
		return "", fmt.Errorf("failed to create job record: %w", err)
	}
	return docRef.ID, nil
}

// Update sets the given top-level fields on a job record and stamps
// updatedAt.
func (s *JobStore) Update(ctx context.Context, jobID string, fields map[string]any) error {
	updates := jobUpdates(fields, time.Now())
	if _, err := s.client.Collection(s.collection).Doc(jobID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update job %s: %w", jobID, err)
	}
	return nil
}

func jobUpdates(fields map[string]any, now time.Time) []firestore.Update {
	paths := make([]string, 0, len(fields)+1)
	for path := range fields {
		if path != "updatedAt" {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	updates := make([]firestore.Update, 0, len(paths)+1)
	for _, path := range paths {
		updates = append(updates, firestore.Update{Path: path, Value: fields[path]})
	}
	return append(updates, firestore.Update{Path: "updatedAt", Value: now})
}
