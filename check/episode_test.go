package check_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/metaphox/shapepat/check"
	"github.com/metaphox/shapepat/eval"
	"github.com/metaphox/shapepat/pattern"
)

func arg(name, pat string, shape ...int) check.Argument {
	return check.Argument{Name: name, Pattern: pat, Shape: shape}
}

func TestCheckCall_NamesAgreeAcrossArguments(t *testing.T) {
	c := check.NewChecker()

	ctx, err := c.CheckCall(check.Call{Args: []check.Argument{
		arg("x", "b n", 2, 3),
		arg("y", "n m", 3, 4),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ctx.String(); got != "b=2 m=4 n=3" {
		t.Errorf("bindings = %q", got)
	}

	_, err = c.CheckCall(check.Call{Args: []check.Argument{
		arg("x", "b n", 2, 3),
		arg("y", "n m", 5, 4),
	}})
	m := mismatch(t, err, check.ReasonNamed)
	if m.Name != "n" || m.Term != "n" || m.Axis != 0 || m.Pattern != "n m" {
		t.Errorf("unexpected payload %+v", m)
	}
	if !strings.HasPrefix(err.Error(), `argument "y": `) {
		t.Errorf("message %q should name the argument", err.Error())
	}
}

func TestCheckCall_VariadicIdentity(t *testing.T) {
	c := check.NewChecker()
	call := check.Call{
		Args:   []check.Argument{arg("x", "*shape", 2, 3)},
		Return: &check.Argument{Pattern: "*shape", Shape: []int{2, 3}},
	}
	if _, err := c.CheckCall(call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call.Return.Shape = []int{2, 3, 1}
	_, err := c.CheckCall(call)
	m := mismatch(t, err, check.ReasonVariadic)
	if !m.Expected.Equal(check.Run([]int{2, 3})) || !m.Observed.Equal(check.Run([]int{2, 3, 1})) {
		t.Errorf("Expected=%v Observed=%v", m.Expected, m.Observed)
	}
	if !strings.HasPrefix(err.Error(), `argument "return": `) {
		t.Errorf("message %q should name the return value", err.Error())
	}
}

func TestCheckCall_KindConflict(t *testing.T) {
	_, err := check.NewChecker().CheckCall(check.Call{Args: []check.Argument{
		arg("x", "*n", 3),
		arg("y", "n", 3),
	}})
	mismatch(t, err, check.ReasonKind)
}

func TestCheckCall_EpisodesAreIndependent(t *testing.T) {
	c := check.NewChecker()
	for _, d := range []int{2, 7} {
		ctx, err := c.CheckCall(check.Call{Args: []check.Argument{arg("x", "n", d)}})
		if err != nil {
			t.Fatalf("n=%d: %v", d, err)
		}
		if b, _ := ctx.Lookup("n"); !b.Equal(check.Axis(d)) {
			t.Errorf("n = %v, want %d", b, d)
		}
	}
}

// TestCheckCall_NoRollback verifies that bindings made before a failure
// stay in the returned context.
func TestCheckCall_NoRollback(t *testing.T) {
	ctx, err := check.NewChecker().CheckCall(check.Call{Args: []check.Argument{
		arg("x", "a b 3", 1, 2, 4),
	}})
	mismatch(t, err, check.ReasonFixed)
	if got := ctx.String(); got != "a=1 b=2" {
		t.Errorf("bindings = %q, want a=1 b=2", got)
	}
}

func TestCheckCall_StopsAtFirstFailure(t *testing.T) {
	ctx, err := check.NewChecker().CheckCall(check.Call{
		Args: []check.Argument{
			arg("x", "a", 1, 1),
			arg("y", "z", 4),
		},
	})
	mismatch(t, err, check.ReasonRank)
	if _, ok := ctx.Lookup("z"); ok {
		t.Error("y should never have been checked")
	}
}

func TestCheckCall_ScopeReachesSplices(t *testing.T) {
	scope := eval.Layered{
		eval.MapScope{"s1": eval.Ints(1, 2)},
		receiver(map[string]any{"shape": []int{3, 4}}),
	}
	ctx, err := check.NewChecker().CheckCall(check.Call{
		Scope: scope,
		Args: []check.Argument{
			arg("x", "*{s1} *rest", 1, 2, 9),
			arg("y", "*rest *{self.shape}", 9, 3, 4),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, _ := ctx.Lookup("rest"); !b.Equal(check.Run([]int{9})) {
		t.Errorf("rest = %v", b)
	}
}

func TestEpisode_ErrorsUnwrap(t *testing.T) {
	ep := check.NewChecker().Begin(nil)

	err := ep.Check(arg("x", "... ...", 1))
	var se *pattern.PatternSyntaxError
	if !errors.As(err, &se) || !errors.Is(err, pattern.ErrMultipleVariadic) {
		t.Fatalf("expected a multiple-variadic syntax error, got %v", err)
	}
	if !strings.Contains(err.Error(), `argument "x"`) {
		t.Errorf("message %q should name the argument", err.Error())
	}

	err = ep.Check(arg("y", "*{nope}", 1))
	var ee *eval.ExpressionError
	if !errors.As(err, &ee) || ee.Term != "*{nope}" {
		t.Fatalf("expected *eval.ExpressionError for *{nope}, got %v", err)
	}

	if err := ep.Check(arg("z", "a", 1)); err != nil {
		t.Fatalf("episode should stay usable after errors: %v", err)
	}
}

func TestChecker_SharesCache(t *testing.T) {
	cache := pattern.NewCache()
	c := check.NewCheckerWithCache(cache)
	if c.Cache() != cache {
		t.Fatal("Cache() should return the shared cache")
	}
	for i := 0; i < 3; i++ {
		if _, err := c.CheckCall(check.Call{Args: []check.Argument{arg("x", "a b", 1, 2)}}); err != nil {
			t.Fatal(err)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("cache holds %d patterns, want 1", cache.Len())
	}
}

func TestChecker_Concurrent(t *testing.T) {
	c := check.NewChecker()
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			ctx, err := c.CheckCall(check.Call{Args: []check.Argument{
				arg("x", "n ...", d, 1),
				arg("y", "n", d),
			}})
			if err != nil {
				errs <- err
				return
			}
			if b, _ := ctx.Lookup("n"); !b.Equal(check.Axis(d)) {
				errs <- errors.New("bindings leaked between episodes")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestChecker_Trace(t *testing.T) {
	c := check.NewChecker()
	var seen []string
	c.Trace = func(a check.Argument, err error) {
		if err != nil {
			seen = append(seen, a.Name+":fail")
			return
		}
		seen = append(seen, a.Name+":ok")
	}
	_, _ = c.CheckCall(check.Call{
		Args:   []check.Argument{arg("x", "n", 2), arg("y", "n", 3), arg("z", "m", 1)},
		Return: &check.Argument{Pattern: ""},
	})
	if got := strings.Join(seen, " "); got != "x:ok y:fail" {
		t.Errorf("trace = %q, want %q", got, "x:ok y:fail")
	}

	seen = nil
	_, _ = c.CheckCall(check.Call{Return: &check.Argument{Pattern: ""}})
	if len(seen) != 1 || seen[0] != check.ReturnName+":ok" {
		t.Errorf("trace = %v, want the return value named %q", seen, check.ReturnName)
	}
}
