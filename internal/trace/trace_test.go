package trace

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	pc "gopkg.microglot.org/combinator.go/combinator"
)

type recorder struct {
	lock  sync.Mutex
	lines []string
}

func (r *recorder) Debugf(format string, values ...any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, values...))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	log := &recorder{}
	parser := pc.String("ab").Thru(Wrap[string](log, "ab"))

	reply := parser.Parse("ab")
	require.True(t, reply.OK())
	require.Equal(t, []string{"ab: try at 0", "ab: matched 0-2"}, log.lines)

	log.lines = nil
	reply = parser("xx", 0)
	require.False(t, reply.OK())
	require.Equal(t, []string{"ab: try at 0", `ab: failed at 0 expecting ["ab"]`}, log.lines)
}

func TestRules(t *testing.T) {
	t.Parallel()

	log := &recorder{}
	rule := Rules[string](log)
	parser := pc.Sequence(rule("a", pc.String("a")), rule("b", pc.String("b")))
	require.True(t, parser.Parse("ab").OK())
	require.Len(t, log.lines, 4)
	require.Equal(t, "b: matched 1-2", log.lines[3])
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	require.NotNil(t, NewLogger())
}
