package benchmark

import (
	"fmt"
	"strings"

	"artifactbench/repository"
)

// Phase names one independently timed group of operations.
type Phase string

const (
	PhaseUpload Phase = "upload"
	PhaseBatch  Phase = "batch"
	PhaseQuery  Phase = "query"
	PhaseSearch Phase = "search"
)

// AllPhases lists every phase in execution order.
var AllPhases = []Phase{PhaseUpload, PhaseBatch, PhaseQuery, PhaseSearch}

// ParsePhases validates phase names and returns them in execution order
// without duplicates, whatever order they were given in.
func ParsePhases(names []string) ([]Phase, error) {
	want := make(map[Phase]bool, len(names))
	for _, n := range names {
		p := Phase(strings.ToLower(strings.TrimSpace(n)))
		if p == "" {
			continue
		}
		if p == "all" {
			return append([]Phase(nil), AllPhases...), nil
		}
		known := false
		for _, a := range AllPhases {
			if a == p {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown phase %q", n)
		}
		want[p] = true
	}

	var phases []Phase
	for _, p := range AllPhases {
		if want[p] {
			phases = append(phases, p)
		}
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("no phases selected")
	}
	return phases, nil
}

// BenchmarkParams holds the parameters for all benchmarks
type BenchmarkParams struct {
	ItemCount  int                     // Work items per upload phase
	BatchSize  int                     // Items per batched upload call
	Repeat     int                     // Repetitions of each phase inside its measurement
	NamePrefix string                  // Work item name prefix, item i is NamePrefix+i
	Extension  string                  // Appended to the name for single uploads
	ItemType   repository.ArtifactType // Type of every work item

	FindAllQuery      string // Broad query whose first result anchors the chain
	RelationshipQuery string // Relationship traversal query
	SearchPhrase      string // Full-text search phrase

	ProgressInterval int // Iterations between progress notifications
	Phases           []Phase
}

// DefaultParams returns the parameters of a standard run.
func DefaultParams() BenchmarkParams {
	return BenchmarkParams{
		ItemCount:         1000,
		BatchSize:         100,
		Repeat:            1,
		NamePrefix:        "PO",
		Extension:         ".xsd",
		ItemType:          repository.XsdDocument,
		FindAllQuery:      "/s-ramp/xsd/XsdDocument",
		RelationshipQuery: "/s-ramp/xsd/ComplexTypeDeclaration/relatedDocument",
		SearchPhrase:      "Purchase order schema",
		ProgressInterval:  100,
		Phases:            append([]Phase(nil), AllPhases...),
	}
}

// Validate checks the parameters before any remote call is made.
func (p BenchmarkParams) Validate() error {
	if p.ItemCount < 0 {
		return fmt.Errorf("item count must be >= 0, got %d", p.ItemCount)
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0, got %d", p.BatchSize)
	}
	if p.Repeat < 1 {
		return fmt.Errorf("repeat must be >= 1, got %d", p.Repeat)
	}
	if p.NamePrefix == "" {
		return fmt.Errorf("name prefix is required")
	}
	if p.FindAllQuery == "" {
		return fmt.Errorf("find-all query is required")
	}
	if p.RelationshipQuery == "" {
		return fmt.Errorf("relationship query is required")
	}
	if p.SearchPhrase == "" {
		return fmt.Errorf("search phrase is required")
	}
	if len(p.Phases) == 0 {
		return fmt.Errorf("no phases selected")
	}
	return nil
}
