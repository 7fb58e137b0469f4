package lox

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"
)

// scenario is one row of the end-to-end table: a named Lox program plus
// whatever stdout+stderr it should print by the time the run is done.
type scenario struct {
	name   string
	source string
}

var scenarios = []scenario{
	{
		name: "fibonacci",
		source: `
			fun fib(n) {
				if (n <= 1) return n;
				return fib(n - 1) + fib(n - 2);
			}
			for (var i = 0; i < 8; i = i + 1) {
				print fib(i);
			}
		`,
	},
	{
		name: "closures_and_counters",
		source: `
			fun makeCounter() {
				var count = 0;
				fun increment() {
					count = count + 1;
					return count;
				}
				return increment;
			}
			var a = makeCounter();
			var b = makeCounter();
			print a();
			print a();
			print b();
		`,
	},
	{
		name: "classes_inheritance_super",
		source: `
			class Shape {
				area() {
					return 0;
				}
				describe() {
					return "a shape with area " + this.area();
				}
			}
			class Square < Shape {
				init(side) {
					this.side = side;
				}
				area() {
					return this.side * this.side;
				}
				describe() {
					return "square: " + super.describe();
				}
			}
			print Square(4).describe();
		`,
	},
	{
		name: "control_flow_and_logic",
		source: `
			var i = 0;
			while (i < 5) {
				if (i == 3) {
					print "three";
				} else {
					print i;
				}
				i = i + 1;
			}
			print true and "kept" or "dropped";
		`,
	},
	{
		name: "string_and_number_mix",
		source: `
			print "count: " + 3 + "/" + 10;
			print 10 / 4;
			print 10 / 5;
		`,
	},
	{
		name: "scoping_shadowing",
		source: `
			var x = "outer";
			{
				var x = "inner";
				print x;
			}
			print x;
		`,
	},
	{
		name: "native_clock_is_callable",
		source: `
			print clock() > 0;
		`,
	},
	{
		name: "runtime_error_undefined_variable",
		source: `
			print neverDeclared;
		`,
	},
	{
		name: "resolve_error_this_outside_class",
		source: `
			print this;
		`,
	},
	{
		name: "resolve_error_top_level_return",
		source: `
			return 5;
		`,
	},
}

// runScenario drives a Runtime the same way the CLI does, under a
// timeout so a genuinely infinite Lox loop fails the test instead of
// hanging the suite.
func runScenario(t *testing.T, src string) string {
	t.Helper()

	runtime := NewRuntime(DefaultConfig())
	config := DefaultConfig()
	config.NoColor = true
	runtime.config = config

	var out bytes.Buffer
	var errOut bytes.Buffer
	runtime.stdout = &out
	runtime.stderr = &errOut

	done := make(chan struct{})
	go func() {
		runtime.run(src)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("scenario timed out, possible infinite loop")
	}

	return fmt.Sprintf("stdout:\n%sstderr:\n%s", out.String(), errOut.String())
}

func TestScenarios(t *testing.T) {
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.name, func(t *testing.T) {
			t.Parallel()
			snaps.MatchSnapshot(t, runScenario(t, sc.source))
		})
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}
