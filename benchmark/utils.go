package benchmark

import (
	"strconv"

	"artifactbench/progress"
	"artifactbench/repository"
)

// WorkItem is one synthesized document.
type WorkItem struct {
	Name     string
	FileName string
	Payload  []byte
	Type     repository.ArtifactType
}

// ItemName returns the deterministic name of item i.
func ItemName(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

// NewWorkItem synthesizes item i. All items share payload.
func NewWorkItem(params BenchmarkParams, payload []byte, i int) WorkItem {
	name := ItemName(params.NamePrefix, i)
	return WorkItem{
		Name:     name,
		FileName: name + params.Extension,
		Payload:  payload,
		Type:     params.ItemType,
	}
}

// Entry converts the item into a batch archive entry.
func (w WorkItem) Entry() repository.Entry {
	return repository.Entry{
		Name:     w.Name,
		Metadata: repository.Metadata{Name: w.Name, Type: w.Type},
		Payload:  w.Payload,
	}
}

// repeat calls fn n times in order, stopping at the first error. When n > 1
// every iteration is reported to notify.
func repeat(n int, notify progress.Notifier, fn func() error) error {
	for r := 0; r < n; r++ {
		if n > 1 && notify != nil {
			notify.Step(r)
		}
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
