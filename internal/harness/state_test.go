package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterExitSuite_Balanced(t *testing.T) {
	s := NewState()

	s.EnterSuite("outer")
	s.EnterSuite("inner")
	assert.Equal(t, TestPath{"outer", "inner"}, s.Path())

	s.ExitSuite()
	assert.Equal(t, TestPath{"outer"}, s.Path())
	s.ExitSuite()
	assert.Empty(t, s.Path())
}

func TestExitSuite_FoldsCountsIntoParent(t *testing.T) {
	s := NewState()

	s.EnterSuite("outer")
	require.False(t, s.EnterCase("a"))
	s.ExitCase(nil)

	s.EnterSuite("inner")
	require.False(t, s.EnterCase("b"))
	s.Record("boom", false, "file.go", 1)
	s.ExitCase(nil)

	inner := s.ExitSuite()
	assert.Equal(t, 1, inner.Tests)
	assert.Equal(t, 1, inner.Errors)
	assert.False(t, inner.Skipped)
	assert.False(t, inner.Passed())

	outer := s.ExitSuite()
	assert.Equal(t, 2, outer.Tests)
	assert.Equal(t, 1, outer.Errors)

	tests, errCount := s.Counts()
	assert.Equal(t, 2, tests)
	assert.Equal(t, 1, errCount)
}

func TestExitSuite_EmptySuiteIsSkipped(t *testing.T) {
	s := NewState()

	s.EnterSuite("empty")
	outcome := s.ExitSuite()

	assert.True(t, outcome.Skipped)
	assert.False(t, outcome.Passed())
	assert.Zero(t, outcome.Errors)
}

func TestExitSuite_CalledAfterBodyError(t *testing.T) {
	s := NewState()

	s.EnterSuite("outer")
	s.EnterSuite("failing")
	// Body raised; exit still runs via cleanup semantics.
	s.ExitSuite()

	// The sibling suite must see clean counters.
	s.EnterSuite("sibling")
	require.False(t, s.EnterCase("ok"))
	s.ExitCase(nil)
	sibling := s.ExitSuite()

	assert.Equal(t, 1, sibling.Tests)
	assert.Zero(t, sibling.Errors)
	assert.Equal(t, TestPath{"outer"}, s.Path())
}

func TestExitCase_BodyErrorCountsAsFailure(t *testing.T) {
	s := NewState()
	s.EnterSuite("suite")

	require.False(t, s.EnterCase("broken"))
	outcome := s.ExitCase(errors.New("script raised"))

	assert.True(t, outcome.Failed)
	assert.Equal(t, "broken", outcome.Name)
	assert.Equal(t, TestPath{"suite"}, s.Path())

	_, errCount := s.Counts()
	assert.Equal(t, 1, errCount)
}

func TestExitCase_FailedAssertionMarksCase(t *testing.T) {
	s := NewState()
	s.EnterSuite("suite")

	require.False(t, s.EnterCase("case"))
	s.Record("value should match", false, "checkout.go", 42)
	s.Record("this one passed", true, "checkout.go", 43)
	outcome := s.ExitCase(nil)

	assert.True(t, outcome.Failed)
	require.Len(t, outcome.FailedAssertions, 1)
	assert.Equal(t, "value should match", outcome.FailedAssertions[0].Message)
	assert.Equal(t, 42, outcome.FailedAssertions[0].Line)

	// The flag resets for the next case.
	require.False(t, s.EnterCase("next"))
	outcome = s.ExitCase(nil)
	assert.False(t, outcome.Failed)
}

func TestRecord_KeysByExactPath(t *testing.T) {
	s := NewState()
	s.EnterSuite("cart")

	require.False(t, s.EnterCase("checkout"))
	s.Record("total is right", true, "f.go", 1)
	s.ExitCase(nil)

	require.False(t, s.EnterCase("wishlist"))
	s.Record("item saved", false, "f.go", 2)
	s.ExitCase(nil)

	all := s.Assertions()
	require.Len(t, all, 2)
	assert.Equal(t, TestPath{"cart", "checkout"}, all[0].Path)
	assert.Equal(t, TestPath{"cart", "wishlist"}, all[1].Path)
}

func TestFilterPredicate(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		skip     string
		path     TestPath
		wantSkip bool
	}{
		{
			name:   "filter matches",
			filter: "checkout",
			path:   TestPath{"cart", "checkout"},
		},
		{
			name:     "filter does not match",
			filter:   "checkout",
			path:     TestPath{"cart", "wishlist"},
			wantSkip: true,
		},
		{
			name:     "skip wins over filter",
			filter:   "flaky",
			skip:     "flaky",
			path:     TestPath{"flaky", "retry"},
			wantSkip: true,
		},
		{
			name:   "no predicates",
			path:   TestPath{"anything"},
		},
		{
			name:     "invalid regex falls back to substring",
			filter:   "checkout[",
			path:     TestPath{"cart", "checkout["},
		},
		{
			name:     "invalid regex substring miss",
			filter:   "checkout[",
			path:     TestPath{"cart", "wishlist"},
			wantSkip: true,
		},
		{
			name:     "skip regex",
			skip:     "^cart\\.",
			path:     TestPath{"cart", "checkout"},
			wantSkip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.SetFilter(tt.filter)
			s.SetSkip(tt.skip)
			for _, suite := range tt.path[:len(tt.path)-1] {
				s.EnterSuite(suite)
			}

			skipped := s.EnterCase(tt.path[len(tt.path)-1])
			assert.Equal(t, tt.wantSkip, skipped)

			if skipped {
				// Skipped cases never count and the path is popped.
				tests, _ := s.Counts()
				assert.Zero(t, tests)
				assert.Len(t, s.Path(), len(tt.path)-1)
			} else {
				s.ExitCase(nil)
			}
		})
	}
}
