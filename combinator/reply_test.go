package combinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/combinator.go/optional"
)

func TestReplyBasics(t *testing.T) {
	t.Parallel()

	s := Success(3, Single("x"))
	require.True(t, s.OK())
	require.Equal(t, 3, s.Position())
	require.Equal(t, -1, s.Farthest())
	require.Nil(t, s.Err())
	require.Equal(t, "Success(3, x)", s.String())

	f := Failure[string](2, "b", "a", "b")
	require.False(t, f.OK())
	require.Equal(t, 2, f.Position())
	require.Equal(t, 2, f.Farthest())
	require.Equal(t, []string{"a", "b"}, f.Expected())
	require.Equal(t, "Failure(2, [a b])", f.String())
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		reply    Reply[string]
		expected string
	}{
		{name: "no labels", reply: Failure[string](4), expected: "unexpected input at offset 4"},
		{name: "one label", reply: Failure[string](0, ","), expected: `expected "," at offset 0`},
		{name: "many labels", reply: Failure[string](7, "]", ","), expected: `expected one of ",", "]" at offset 7`},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			err := testCase.reply.Err()
			require.Error(t, err)
			require.Equal(t, testCase.expected, err.Error())
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, testCase.reply.Position(), pe.Position)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	none := optional.None[Reply[string]]()
	some := optional.Some[Reply[string]]

	testCases := []struct {
		name     string
		current  Reply[string]
		previous optional.Optional[Reply[string]]
		ok       bool
		position int
		farthest int
		expected []string
	}{
		{
			name:     "no previous keeps current",
			current:  Failure[string](2, "x"),
			previous: none,
			position: 2,
			farthest: 2,
			expected: []string{"x"},
		},
		{
			name:     "deeper current failure wins",
			current:  Failure[string](5, "x"),
			previous: some(Failure[string](2, "y")),
			position: 5,
			farthest: 5,
			expected: []string{"x"},
		},
		{
			name:     "deeper previous failure is kept verbatim",
			current:  Failure[string](1, "x"),
			previous: some(Failure[string](4, "y")),
			position: 4,
			farthest: 4,
			expected: []string{"y"},
		},
		{
			name:     "equal failures pool expectations",
			current:  Failure[string](3, "x", "z"),
			previous: some(Failure[string](3, "y", "z")),
			position: 3,
			farthest: 3,
			expected: []string{"x", "y", "z"},
		},
		{
			name:     "success over fresh success",
			current:  Success(6, Single("a")),
			previous: some(Success(2, Single("b"))),
			ok:       true,
			position: 6,
			farthest: -1,
		},
		{
			name:     "success is never suppressed by a deeper failure",
			current:  Success(2, Single("a")),
			previous: some(Failure[string](9, "y")),
			ok:       true,
			position: 2,
			farthest: 9,
			expected: []string{"y"},
		},
		{
			name:     "failure short of a success trail reports the trail",
			current:  Failure[string](2, "x"),
			previous: some(Merge(Success(2, Single("a")), some(Failure[string](5, "y")))),
			position: 5,
			farthest: 5,
			expected: []string{"y"},
		},
		{
			name:     "failure past a success trail wins",
			current:  Failure[string](7, "x"),
			previous: some(Merge(Success(2, Single("a")), some(Failure[string](5, "y")))),
			position: 7,
			farthest: 7,
			expected: []string{"x"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			merged := Merge(testCase.current, testCase.previous)
			require.Equal(t, testCase.ok, merged.OK())
			require.Equal(t, testCase.position, merged.Position())
			require.Equal(t, testCase.farthest, merged.Farthest())
			require.Equal(t, testCase.expected, merged.Expected())
			if testCase.ok {
				require.Equal(t, testCase.current.Value(), merged.Value())
			}
		})
	}
}

func TestMergeAcrossValueTypes(t *testing.T) {
	t.Parallel()

	previous := optional.Some(Failure[string](4, "digit"))
	merged := Merge(Success(1, Single(42)), previous)
	require.True(t, merged.OK())
	require.Equal(t, 42, merged.Value().Payload())
	require.Equal(t, 4, merged.Farthest())
	require.Equal(t, []string{"digit"}, merged.Expected())
}
