// Package repository is the harness's view of the remote artifact repository:
// four blocking calls behind the Service interface and a REST client that
// implements them.
package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConnection means the session could not be established or authenticated.
	ErrConnection = errors.New("connection failure")
	// ErrCall means a single Upload, BatchUpload, Query or GetMetadata call failed.
	ErrCall = errors.New("call failure")
	// ErrEmptyResult means a query returned no results where one was required.
	// It is a call failure.
	ErrEmptyResult = fmt.Errorf("%w: empty result", ErrCall)
)

// ArtifactType identifies an artifact model and type, e.g. xsd/XsdDocument.
type ArtifactType struct {
	Model string `json:"model"`
	Type  string `json:"type"`
}

func (t ArtifactType) String() string {
	return t.Model + "/" + t.Type
}

// XsdDocument is the type every synthesized work item carries.
var XsdDocument = ArtifactType{Model: "xsd", Type: "XsdDocument"}

// Metadata describes an archive entry.
type Metadata struct {
	Name string       `json:"name"`
	Type ArtifactType `json:"artifactType"`
}

// Entry is one item of a batched upload.
type Entry struct {
	Name     string
	Metadata Metadata
	Payload  []byte
}

// Summary is a single query result.
type Summary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	ArtifactType
}

// Record is the full metadata of one artifact.
type Record struct {
	UUID             string            `json:"uuid"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	CreatedBy        string            `json:"createdBy,omitempty"`
	CreatedTimestamp string            `json:"createdTimestamp,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
	ArtifactType
}

// Service is the set of repository calls the harness times. Implementations
// are handed to the harness already authenticated.
//
// Query returns only the first page of results, in the order the repository
// produced them. Callers that pick the first element as an anchor rely on the
// repository returning a stable order for the same query.
type Service interface {
	Upload(ctx context.Context, name string, payload []byte) error
	BatchUpload(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, q string) ([]Summary, error)
	GetMetadata(ctx context.Context, t ArtifactType, uuid string) (*Record, error)
}

// CallError carries the details of a failed remote call.
type CallError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *CallError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
}

// Is reports every CallError as ErrCall.
func (e *CallError) Is(target error) bool {
	return target == ErrCall
}

func (e *CallError) Unwrap() error {
	return e.Err
}
