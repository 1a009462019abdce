package jsonsubset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	pc "gopkg.microglot.org/combinator.go/combinator"
	"gopkg.microglot.org/combinator.go/internal/idl"
)

const document = `{
  "string": "foobar",
  "number": -12345,
  "list": [
    true,
    false,
    "",
    " ",
    {
      "empty": {}
    }
  ]
}`

func TestNestedDocument(t *testing.T) {
	t.Parallel()

	reply := New().Parse(`{"a":[true,false,{"b":{}}]}`)
	require.True(t, reply.OK(), reply.String())
	require.Equal(t, map[string]any{
		"a": []any{true, false, map[string]any{"b": map[string]any{}}},
	}, reply.Value().Payload().Interface())
}

func TestDocument(t *testing.T) {
	t.Parallel()

	reply := New().Parse(document)
	require.True(t, reply.OK(), reply.String())
	root, ok := reply.Value().Payload().(idl.Object)
	require.True(t, ok)

	require.Equal(t, []string{"string", "number", "list"}, []string{root[0].Key, root[1].Key, root[2].Key})

	s, _ := root.Get("string")
	require.Equal(t, idl.String("foobar"), s)

	n, _ := root.Get("number")
	require.Equal(t, "-12345", n.(idl.Number).Value.String())

	l, _ := root.Get("list")
	list := l.(idl.List)
	require.Len(t, list, 5)
	require.Equal(t, idl.Bool(true), list[0])
	require.Equal(t, idl.Bool(false), list[1])
	require.Equal(t, idl.String(""), list[2])
	require.Equal(t, idl.String(" "), list[3])

	inner := list[4].(idl.Object)
	require.Len(t, inner, 1)
	empty, ok := inner.Get("empty")
	require.True(t, ok)
	require.Empty(t, empty.(idl.Object))
}

func TestScalars(t *testing.T) {
	t.Parallel()

	g := New()
	testCases := []struct {
		name     string
		input    string
		expected any
	}{
		{name: "true", input: "true", expected: true},
		{name: "false", input: " false ", expected: false},
		{name: "null", input: "null", expected: nil},
		{name: "zero", input: "0", expected: float64(0)},
		{name: "fraction", input: "-0.25", expected: -0.25},
		{name: "exponent", input: "1.5e3", expected: float64(1500)},
		{name: "escapes", input: `"a\"b\\cé\n"`, expected: "a\"b\\cé\n"},
		{name: "empty list", input: "[ ]", expected: []any{}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			reply := g.Parse(testCase.input)
			require.True(t, reply.OK(), reply.String())
			require.Equal(t, testCase.expected, reply.Value().Payload().Interface())
		})
	}
}

func TestNumberKeepsExactValue(t *testing.T) {
	t.Parallel()

	reply := New().Parse("0.1")
	require.True(t, reply.OK())
	require.Equal(t, "0.1", reply.Value().Payload().(idl.Number).Value.String())
}

func TestAgreesWithGJSON(t *testing.T) {
	t.Parallel()

	g := New()
	inputs := []string{
		`{"a":[true,false,{"b":{"c":null}}]}`,
		`[1, -2.5, 3e2, "x\ty", {"k": [false]}]`,
		`{"nested": {"deeper": {"deepest": ["A", 0]}}}`,
		`  "padded"  `,
	}
	for _, input := range inputs {
		require.True(t, gjson.Valid(input), input)
		reply := g.Parse(input)
		require.True(t, reply.OK(), reply.String())
		require.Equal(t, gjson.Parse(input).Value(), reply.Value().Payload().Interface(), input)
	}

	reply := g.Parse(document)
	require.True(t, reply.OK())
	root := reply.Value().Payload().(idl.Object)
	number, _ := root.Get("number")
	require.Equal(t, gjson.Get(document, "number").Float(), number.Interface())
	list, _ := root.Get("list")
	require.Len(t, list.(idl.List), int(gjson.Get(document, "list.#").Int()))
	require.Equal(t, gjson.Get(document, "list.3").String(), list.(idl.List)[3].Interface())
}

func TestFailures(t *testing.T) {
	t.Parallel()

	values := []string{"[", "false", "null", "number", "string", "true", "{"}
	g := New()
	testCases := []struct {
		name     string
		input    string
		position int
		expected []string
	}{
		{name: "empty input", input: "", position: 0, expected: values},
		{name: "missing value", input: `{"a":}`, position: 5, expected: values},
		{name: "missing comma or bracket", input: `[1 2]`, position: 3, expected: []string{",", "]"}},
		{name: "unquoted key", input: `{a:1}`, position: 1, expected: []string{"string", "}"}},
		{name: "trailing input", input: `{} {}`, position: 3, expected: []string{"end of input"}},
		{name: "bad escape", input: `"\x"`, position: 0, expected: values},
		{name: "leading zero", input: `01`, position: 1, expected: []string{"end of input"}},
		{name: "huge exponent", input: `1e400000000`, position: 0, expected: values},
		{name: "tiny exponent", input: `1E-10001`, position: 0, expected: values},
		{name: "huge exponent in list", input: `[0, 1e400000000]`, position: 4, expected: values},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			reply := g.Parse(testCase.input)
			require.False(t, reply.OK())
			require.Equal(t, testCase.position, reply.Position())
			require.Equal(t, testCase.expected, reply.Expected())
		})
	}
}

func TestNumberExponentBound(t *testing.T) {
	t.Parallel()

	reply := New().Parse("1e10000")
	require.True(t, reply.OK())
	n := reply.Value().Payload().(idl.Number)
	require.True(t, n.InRange())
	require.Equal(t, int32(idl.MaxExponent), n.Value.Exponent())
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	s, err := unescape(`a\n\u00e9`)
	require.NoError(t, err)
	require.Equal(t, "a\né", s)

	s, err = unescape(`tab\tq\"`)
	require.NoError(t, err)
	require.Equal(t, "tab\tq\"", s)

	_, err = unescape(`\x`)
	require.Error(t, err)
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	g := New()
	var wg sync.WaitGroup
	results := make(chan pc.Reply[idl.Node], 16)
	for x := 0; x < 16; x = x + 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- g.Parse(document)
		}()
	}
	wg.Wait()
	close(results)
	for reply := range results {
		require.True(t, reply.OK())
	}
}

func TestRuleWrapper(t *testing.T) {
	t.Parallel()

	var names []string
	var lock sync.Mutex
	g := New(WithRuleWrapper(func(name string, parser pc.Parser[idl.Node]) pc.Parser[idl.Node] {
		return func(source string, position int) pc.Reply[idl.Node] {
			lock.Lock()
			names = append(names, name)
			lock.Unlock()
			return parser(source, position)
		}
	}))
	require.True(t, g.Parse(`[1]`).OK())
	require.Equal(t, []string{"value", "object", "array", "value", "object", "array", "string", "number"}, names)
}
