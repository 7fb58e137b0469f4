package lox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// runLox runs a whole script through the Scanner -> Parser -> Resolver ->
// Interpreter pipeline exactly the way the CLI does, and returns everything
// printed to stdout plus the runtime so tests can inspect its error flags.
func runLox(t *testing.T, source string) (string, *Runtime) {
	t.Helper()

	runtime := NewRuntime(DefaultConfig())
	var out bytes.Buffer
	runtime.stdout = &out

	runtime.run(source)

	return out.String(), runtime
}

func TestInterpreterArithmeticAndStringConcat(t *testing.T) {
	out, runtime := runLox(t, `
		print 1 + 2;
		print "foo" + "bar";
		print 6 / 2 - 1;
	`)

	require.False(t, runtime.hadError)
	require.False(t, runtime.hadRuntimeError)
	require.Equal(t, "3\nfoobar\n2\n", out)
}

func TestInterpreterIntegralFloatsPrintWithoutFraction(t *testing.T) {
	out, _ := runLox(t, `print 6 / 2;`)
	require.Equal(t, "3\n", out)
}

func TestInterpreterFractionalFloatsKeepFraction(t *testing.T) {
	out, _ := runLox(t, `print 1 / 2;`)
	require.Equal(t, "0.5\n", out)
}

func TestInterpreterTruthinessAndLogicalOperators(t *testing.T) {
	out, _ := runLox(t, `
		print nil or "default";
		print false or nil;
		print "a" and "b";
		print nil and "unreached";
	`)

	require.Equal(t, "default\nnil\nb\nnil\n", out)
}

func TestInterpreterEqualityAcrossTypes(t *testing.T) {
	out, _ := runLox(t, `
		print 1 == 1;
		print 1 == "1";
		print nil == nil;
		print nil == false;
	`)

	require.Equal(t, "true\nfalse\ntrue\nfalse\n", out)
}

func TestInterpreterVariableScopingAndShadowing(t *testing.T) {
	out, _ := runLox(t, `
		var a = "global";
		{
			var a = "block";
			print a;
		}
		print a;
	`)

	require.Equal(t, "block\nglobal\n", out)
}

func TestInterpreterClosureCapturesVariableByReference(t *testing.T) {
	out, _ := runLox(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}

		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)

	require.Equal(t, "1\n2\n3\n", out)
}

func TestInterpreterRecursion(t *testing.T) {
	out, _ := runLox(t, `
		fun fib(n) {
			if (n <= 1) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)

	require.Equal(t, "55\n", out)
}

func TestInterpreterClassFieldsAndMethods(t *testing.T) {
	out, _ := runLox(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}

			greet() {
				return "hello, " + this.name;
			}
		}

		var g = Greeter("world");
		print g.greet();
	`)

	require.Equal(t, "hello, world\n", out)
}

func TestInterpreterClassAndInstanceStringify(t *testing.T) {
	out, _ := runLox(t, `
		class A {}
		print A;
		print A();
	`)

	require.Equal(t, "<class A>\n<instance A>\n", out)
}

func TestInterpreterInheritanceAndSuper(t *testing.T) {
	out, _ := runLox(t, `
		class Animal {
			speak() {
				return "...";
			}
		}

		class Dog < Animal {
			speak() {
				return "woof (parent says " + super.speak() + ")";
			}
		}

		print Dog().speak();
	`)

	require.Equal(t, "woof (parent says ...)\n", out)
}

func TestInterpreterWhileAndForLoops(t *testing.T) {
	out, _ := runLox(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}

		for (var j = 0; j < 3; j = j + 1) {
			print j * 10;
		}
	`)

	require.Equal(t, "0\n1\n2\n0\n10\n20\n", out)
}

func TestInterpreterUndefinedVariableIsARuntimeError(t *testing.T) {
	_, runtime := runLox(t, `print undefinedThing;`)

	require.False(t, runtime.hadError)
	require.True(t, runtime.hadRuntimeError)
}

func TestInterpreterCallingNonCallableIsARuntimeError(t *testing.T) {
	_, runtime := runLox(t, `
		var notAFunction = 1;
		notAFunction();
	`)

	require.True(t, runtime.hadRuntimeError)
}

func TestInterpreterWrongArityIsARuntimeError(t *testing.T) {
	_, runtime := runLox(t, `
		fun needsTwo(a, b) { return a + b; }
		needsTwo(1);
	`)

	require.True(t, runtime.hadRuntimeError)
}

func TestInterpreterStackOverflowGuardTripsOnUnboundedRecursion(t *testing.T) {
	config := DefaultConfig()
	config.MaxCallDepth = 50

	runtime := NewRuntime(config)
	var out bytes.Buffer
	runtime.stdout = &out

	runtime.run(`
		fun recurse() {
			return recurse();
		}
		recurse();
	`)

	require.True(t, runtime.hadRuntimeError)
}

func TestInterpreterReplReusesInterpreterAcrossCalls(t *testing.T) {
	runtime := NewRuntime(DefaultConfig())
	var out bytes.Buffer
	runtime.stdout = &out

	runtime.run(`var sticky = "first line";`)
	require.False(t, runtime.hadError)
	require.False(t, runtime.hadRuntimeError)

	runtime.run(`print sticky;`)
	require.Equal(t, "first line\n", out.String())
}

func TestInterpreterParseErrorSetsHadErrorWithoutRunning(t *testing.T) {
	out, runtime := runLox(t, `print ;`)

	require.True(t, runtime.hadError)
	require.False(t, runtime.hadRuntimeError)
	require.Empty(t, out)
}

func TestInterpreterStringifyLargeIntegralFloat(t *testing.T) {
	// Values at or beyond 1e15 fall back to default float formatting
	// instead of being rendered as an integer literal.
	out, _ := runLox(t, `print 100000000000000.0 * 100.0;`)

	require.True(t, strings.Contains(out, "e+"))
}
