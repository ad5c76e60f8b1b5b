package models

import "time"

// Job statuses, in lifecycle order.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

// Job is the Firestore record of one batch transformation.
type Job struct {
	ToolID              string         `firestore:"toolId,omitempty"`
	InputHash           string         `firestore:"inputHash,omitempty"`
	SourceBucket        string         `firestore:"sourceBucket,omitempty"`
	SourceObject        string         `firestore:"sourceObject,omitempty"`
	InputCount          int            `firestore:"inputCount,omitempty"`
	Status              string         `firestore:"status,omitempty"`
	ErrorDetails        string         `firestore:"errorDetails,omitempty"`
	ResultKind          string         `firestore:"resultKind,omitempty"`
	OutputURI           string         `firestore:"outputUri,omitempty"`
	Stats               map[string]any `firestore:"stats,omitempty"`
	WorkflowExecutionID string         `firestore:"workflowExecutionId,omitempty"` // For traceability
	CreatedAt           time.Time      `firestore:"createdAt,omitempty"`
	UpdatedAt           time.Time      `firestore:"updatedAt,omitempty"`
}
