package publish

import (
	"fmt"
)

// Status is the result of publishing a single icon.
type Status int

// see Status
const (
	Uploaded Status = iota
	Deleted
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Uploaded:
		return "uploaded"
	case Deleted:
		return "deleted"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is the result of publishing or deleting a single icon. Err is set for skipped and failed
// icons.
type Outcome struct {
	Name   string
	Path   string
	Status Status
	Err    error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v: %v", o.Name, o.Status, o.Err)
	}
	return fmt.Sprintf("%s: %v %s", o.Name, o.Status, o.Path)
}

// Report holds the outcomes of a run in the order the icons were processed.
type Report []Outcome

// OK returns true if no icon failed. Skipped icons do not count as failures.
func (r Report) OK() bool {
	for _, o := range r {
		if o.Status == Failed {
			return false
		}
	}
	return true
}

// Failed returns the outcomes of the icons that failed.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r {
		if o.Status == Failed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns the number of outcomes with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, o := range r {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Paths returns the destination paths of the icons that were written or deleted.
func (r Report) Paths() []string {
	paths := []string{}
	for _, o := range r {
		if o.Status == Uploaded || o.Status == Deleted {
			paths = append(paths, o.Path)
		}
	}
	return paths
}
