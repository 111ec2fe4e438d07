package harness

import (
	"strings"
	"sync"
)

// TestPath is the ordered chain of suite/case names from the root to the
// current position. Filter and skip matching operate on the dot-joined
// rendering; equality is structural.
type TestPath []string

func (p TestPath) String() string {
	return strings.Join(p, ".")
}

// Equal reports structural equality of two paths.
func (p TestPath) Equal(other TestPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Assertion is one recorded check, keyed by the exact path of the case
// it was made in. Append-only, never mutated after creation.
type Assertion struct {
	Path    TestPath
	Message string
	Success bool
	File    string
	Line    int
}

// SuiteOutcome summarizes a suite after its body completed.
type SuiteOutcome struct {
	Name    string
	Tests   int
	Errors  int
	Skipped bool // no cases ran inside the suite
}

// Passed reports whether the suite ran at least one case and none failed.
func (o SuiteOutcome) Passed() bool {
	return !o.Skipped && o.Errors == 0
}

// CaseOutcome summarizes a single case after its body completed.
type CaseOutcome struct {
	Name             string
	Failed           bool
	FailedAssertions []Assertion
}

type counts struct {
	tests  int
	errors int
}

// State is the concurrency-safe test state machine. It tracks the active
// nested suite path, per-suite counters, the skip/filter predicates and
// the append-only assertion log. A single primary task drives the
// suite/case hooks sequentially; background tasks run against their own
// State.
type State struct {
	mu sync.Mutex

	filter string
	skip   string

	testCount     int
	errorCount    int
	nested        []counts
	stack         TestPath
	currentFailed bool

	assertions []Assertion
}

// NewState returns an empty state machine.
func NewState() *State {
	return &State{}
}

// SetFilter configures the allow-list predicate: cases whose dot-joined
// path does not match are skipped.
func (s *State) SetFilter(expr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = expr
}

// SetSkip configures the deny-list predicate, evaluated before the
// filter. Matching cases are always skipped.
func (s *State) SetSkip(expr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skip = expr
}

// Path returns a copy of the current test path.
func (s *State) Path() TestPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(TestPath(nil), s.stack...)
}

// Depth returns the current nesting depth, used for indented output.
func (s *State) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// EnterSuite pushes a suite frame: the parent's counters are snapshotted
// and reset so the suite's counts are scoped to its own body.
func (s *State) EnterSuite(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nested = append(s.nested, counts{tests: s.testCount, errors: s.errorCount})
	s.testCount = 0
	s.errorCount = 0
	s.stack = append(s.stack, name)
}

// ExitSuite pops the suite frame and folds its counts back into the
// parent. It must be called even when the suite body failed, or sibling
// suites would see stale counts.
func (s *State) ExitSuite() SuiteOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := SuiteOutcome{
		Tests:   s.testCount,
		Errors:  s.errorCount,
		Skipped: s.testCount == 0,
	}
	if len(s.stack) > 0 {
		outcome.Name = s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
	}
	if len(s.nested) > 0 {
		parent := s.nested[len(s.nested)-1]
		s.nested = s.nested[:len(s.nested)-1]
		s.testCount += parent.tests
		s.errorCount += parent.errors
	}
	return outcome
}

// EnterCase pushes a case onto the path and evaluates the skip/filter
// predicates against the resulting dot-joined path. When the case is
// skipped it is popped immediately and the test counter is left
// untouched; the returned flag tells the caller not to run the body.
func (s *State) EnterCase(name string) (skipped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stack = append(s.stack, name)
	if shouldSkip(s.stack.String(), s.skip, s.filter) {
		s.stack = s.stack[:len(s.stack)-1]
		return true
	}
	s.testCount++
	s.currentFailed = false
	return false
}

// ExitCase finalizes the current case. A case fails when its body
// returned an error or any of its assertions failed. The path is always
// popped and the failure flag cleared, regardless of outcome.
func (s *State) ExitCase(bodyErr error) CaseOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := CaseOutcome{
		Failed: bodyErr != nil || s.currentFailed,
	}
	if len(s.stack) > 0 {
		outcome.Name = s.stack[len(s.stack)-1]
	}
	if outcome.Failed {
		s.errorCount++
		outcome.FailedAssertions = s.failedAssertionsLocked(s.stack)
	}
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.currentFailed = false
	return outcome
}

// Record appends an assertion keyed by the current exact path. A failed
// assertion marks the enclosing case as failed.
func (s *State) Record(message string, success bool, file string, line int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assertions = append(s.assertions, Assertion{
		Path:    append(TestPath(nil), s.stack...),
		Message: message,
		Success: success,
		File:    file,
		Line:    line,
	})
	if !success {
		s.currentFailed = true
	}
}

// Assertions returns a snapshot of the full assertion log, in recording
// order.
func (s *State) Assertions() []Assertion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Assertion(nil), s.assertions...)
}

// Counts returns the total test and error counters visible at the
// current nesting level. At the end of a run this is the run total.
func (s *State) Counts() (tests, errors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.testCount, s.errorCount
}

func (s *State) failedAssertionsLocked(path TestPath) []Assertion {
	var failed []Assertion
	for _, a := range s.assertions {
		if !a.Success && a.Path.Equal(path) {
			failed = append(failed, a)
		}
	}
	return failed
}
