package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationOf(t *testing.T) {
	t.Parallel()
	source := "ab\ncdé\n\nx"
	testCases := []struct {
		name     string
		offset   int
		expected Location
	}{
		{name: "start", offset: 0, expected: Location{Line: 1, Column: 1, Offset: 0}},
		{name: "end of first line", offset: 2, expected: Location{Line: 1, Column: 3, Offset: 2}},
		{name: "second line", offset: 4, expected: Location{Line: 2, Column: 2, Offset: 4}},
		{name: "after multibyte rune", offset: 7, expected: Location{Line: 2, Column: 4, Offset: 7}},
		{name: "empty line", offset: 8, expected: Location{Line: 3, Column: 1, Offset: 8}},
		{name: "last line", offset: 9, expected: Location{Line: 4, Column: 1, Offset: 9}},
		{name: "end of input", offset: len(source), expected: Location{Line: 4, Column: 2, Offset: len(source)}},
		{name: "negative clamps", offset: -4, expected: Location{Line: 1, Column: 1, Offset: 0}},
		{name: "past end clamps", offset: 99, expected: Location{Line: 4, Column: 2, Offset: len(source)}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, LocationOf(source, testCase.offset))
		})
	}
}
