package models

// These structs define the JSON payloads exchanged with the tool-runner
// function and handed to the Cloud Workflow after a batch job.

// Manifest describes a multi-input batch job. It is uploaded as
// <toolId>/<name>.manifest.json; Files are object names in the same bucket
// and Prefix adds every object below it.
type Manifest struct {
	Files  []string          `json:"files"`
	Prefix string            `json:"prefix,omitempty"`
	Text   string            `json:"text,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// WorkflowArgument is the execution argument of the post-processing workflow.
type WorkflowArgument struct {
	JobID     string `json:"jobId"`
	ToolID    string `json:"toolId"`
	OutputURI string `json:"outputUri"`
}

// InlineFile carries file bytes inside a JSON request; Data is base64 on the wire.
type InlineFile struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// ToolRunRequest is the input for the tool-runner function.
type ToolRunRequest struct {
	ToolID      string            `json:"toolId"`
	Text        string            `json:"text,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	Files       []InlineFile      `json:"files,omitempty"`
	InputURIs   []string          `json:"inputUris,omitempty"`
	ExecutionID string            `json:"executionId,omitempty"`
}

// ToolRunResponse is the output of the tool-runner function. File results
// are returned inline unless an output bucket is configured.
type ToolRunResponse struct {
	Status        string         `json:"status"`
	Kind          string         `json:"kind"`
	Value         string         `json:"value,omitempty"`
	Message       string         `json:"message,omitempty"`
	SuggestedName string         `json:"suggestedName,omitempty"`
	MIMEType      string         `json:"mimeType,omitempty"`
	Data          []byte         `json:"data,omitempty"`
	OutputURI     string         `json:"outputUri,omitempty"`
	Stats         map[string]any `json:"stats,omitempty"`
}
