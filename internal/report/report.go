// Package report folds the flat assertion log into a hierarchical test
// report and renders it as a summary table, JSON or YAML. A node's
// success and counts are always re-derived bottom-up from its children,
// never patched incrementally, so insertion order cannot affect the
// final tree.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"samctl/internal/harness"
)

// Node is one entry in the report tree. Leaves carry individual
// assertions; interior nodes aggregate their children.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Success  bool    `json:"success" yaml:"success"`
	Tests    int     `json:"test_count" yaml:"test_count"`
	Errors   int     `json:"error_count" yaml:"error_count"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Duration is a time.Duration that serializes as a duration string
// ("1.5s") instead of raw nanoseconds.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Report is the final artifact of a run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Name      string    `json:"name" yaml:"name"`
	Generated time.Time `json:"generated" yaml:"generated"`
	Duration  Duration  `json:"duration" yaml:"duration"`
	Root      *Node     `json:"results" yaml:"results"`
}

// FailedCount returns the aggregate number of failed assertions, used by
// the caller to decide the process exit status.
func (r *Report) FailedCount() int {
	return r.Root.Errors
}

// Builder accumulates assertions and produces the report tree.
type Builder struct {
	name string
	root *Node
}

// NewBuilder creates a Builder for a run of the named environment.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		root: &Node{Name: name, Success: true},
	}
}

// Add inserts one assertion: nodes are walked or created along the
// path's segments and a leaf node is attached for the assertion itself.
// Ancestor aggregates are re-derived from scratch after the insert.
func (b *Builder) Add(a harness.Assertion) {
	node := b.root
	for _, segment := range a.Path {
		node = node.child(segment)
	}

	leaf := &Node{
		Name:    a.Message,
		Success: a.Success,
		Tests:   1,
	}
	if !a.Success {
		leaf.Errors = 1
	}
	node.Children = append(node.Children, leaf)

	rederive(b.root)
}

// Build finalizes the report. duration is the wall time of the run.
func (b *Builder) Build(duration time.Duration) *Report {
	rederive(b.root)
	return &Report{
		RunID:     uuid.New().String(),
		Name:      b.name,
		Generated: time.Now(),
		Duration:  Duration(duration),
		Root:      b.root,
	}
}

// FromAssertions builds a report directly from a full assertion log.
func FromAssertions(name string, assertions []harness.Assertion, duration time.Duration) *Report {
	b := NewBuilder(name)
	for _, a := range assertions {
		b.Add(a)
	}
	return b.Build(duration)
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name, Success: true}
	n.Children = append(n.Children, c)
	return c
}

// rederive recomputes success and counts for every interior node as the
// conjunction and sums of its children. Leaves keep their own values.
func rederive(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	n.Tests = 0
	n.Errors = 0
	n.Success = true
	for _, c := range n.Children {
		rederive(c)
		n.Tests += c.Tests
		n.Errors += c.Errors
		n.Success = n.Success && c.Success
	}
}
