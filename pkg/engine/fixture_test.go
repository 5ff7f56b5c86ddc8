package engine

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScriptFixtures runs representative scripts and snapshots their
// console output, pinning the display format and the side-effect
// conventions.
func TestScriptFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		script string
	}{
		{
			name:   "ScalarEcho",
			script: "x = 5",
		},
		{
			name:   "MatrixEcho",
			script: "A = [1 2; 3 4]",
		},
		{
			name:   "SuppressedThenAns",
			script: "3 * 7; ans",
		},
		{
			name:   "DispAndFprintf",
			script: "disp('hello'); fprintf('%5.2f|%d|%s\\n', 3.14159, 42, 'ok');",
		},
		{
			name:   "ForLoopOutput",
			script: "for k = 1:3\nfprintf('k=%d\\n', k);\nend",
		},
		{
			name:   "Warning",
			script: "warning('watch out');",
		},
		{
			name:   "SymbolicSimplify",
			script: "disp(symsimplify('2*x + 3*x + 0'))",
		},
		{
			name:   "SymbolicDerivative",
			script: "disp(symdiff('x^3 - 2*x', 'x'))",
		},
		{
			name:   "CaughtError",
			script: "try\nerror('boom');\ncatch err\nfprintf('caught: %s\\n', err.message);\nend",
		},
		{
			name:   "FormatLongPi",
			script: "format long\npi",
		},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			e := New()
			var out strings.Builder
			e.SetOutputCallback(func(text string) { out.WriteString(text) })

			if _, err := e.Execute(fixture.script); err != nil {
				out.WriteString("ERROR: " + err.Error())
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}
