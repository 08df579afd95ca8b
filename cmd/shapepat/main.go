package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/shapepat/ast"
	"github.com/metaphox/shapepat/check"
	"github.com/metaphox/shapepat/eval"
	"github.com/metaphox/shapepat/lexer"
	"github.com/metaphox/shapepat/manifest"
	"github.com/metaphox/shapepat/pattern"
)

const (
	appName = "shapepat"
	version = "0.3.0"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix(appName + ": ")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "parse":
		os.Exit(cmdParse(os.Args[2:], os.Stdout))
	case "check":
		os.Exit(cmdCheck(os.Args[2:], os.Stdout))
	case "eval":
		os.Exit(cmdEval(os.Args[2:], os.Stdout))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(version)
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		log.Printf("unknown command %q", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `%s %s: shape-pattern checker

Usage:
  %s parse <pattern>...                 Parse patterns and print their terms.
  %s check [-v] <file.yaml>...          Run episode manifests; exit 1 on any unexpected outcome.
  %s eval <expr> [name=value ...]       Evaluate a splice expression.
  %s repl                               Check shapes interactively.
  %s version                            Print the version.

`, appName, version, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// parse
// -----------------------------------------------------------------------------

func cmdParse(args []string, out io.Writer) int {
	if len(args) == 0 {
		log.Printf("usage: %s parse <pattern>...", appName)
		return 2
	}

	status := 0
	for _, src := range args {
		p, err := pattern.Parse(src)
		if err != nil {
			log.Print(err)
			status = 1
			continue
		}
		fmt.Fprintf(out, "%q: %d term(s)\n", p.Source(), p.Len())
		for _, t := range p.Terms() {
			fmt.Fprintf(out, "  %3d  %-8s  %s\n", t.Col, t.Kind, describeTerm(t))
		}
	}
	return status
}

func describeTerm(t pattern.Term) string {
	switch t.Kind {
	case pattern.Fixed:
		return fmt.Sprintf("%d", t.Size)
	case pattern.Variadic:
		if t.Anonymous() {
			return "..."
		}
		return "*" + t.Name
	case pattern.Splice:
		prog, err := eval.Compile(t.Expr)
		if err != nil {
			return fmt.Sprintf("%s  (%v)", t.Text, err)
		}
		return fmt.Sprintf("%s  => %s", t.Text, prog)
	}
	return t.Name
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "print passing episodes and trace every argument")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		log.Printf("usage: %s check [-v] <file.yaml>...", appName)
		return 2
	}

	c := check.NewChecker()
	if *verbose {
		c.Trace = func(a check.Argument, err error) {
			if err != nil {
				log.Printf("  %s %q %s: %v", a.Name, a.Pattern, check.FormatShape(a.Shape), err)
				return
			}
			log.Printf("  %s %q %s: ok", a.Name, a.Pattern, check.FormatShape(a.Shape))
		}
	}

	var total, bad int
	for _, path := range files {
		m, err := manifest.LoadFile(path)
		if err != nil {
			log.Print(err)
			bad++
			continue
		}
		for _, o := range m.Run(c) {
			total++
			if !o.OK() {
				bad++
				fmt.Fprintf(out, "FAIL  %s: %s: %s\n", path, o.Episode, explain(o))
				continue
			}
			if *verbose {
				fmt.Fprintf(out, "ok    %s: %s  %s\n", path, o.Episode, explain(o))
			}
		}
	}

	fmt.Fprintf(out, "%d episode(s), %d unexpected\n", total, bad)
	if bad > 0 {
		return 1
	}
	return 0
}

func explain(o manifest.Outcome) string {
	switch {
	case o.Err == nil && o.Expect == manifest.ExpectFail:
		return "passed, expected a failure"
	case o.Err == nil:
		return "[" + o.Bindings.String() + "]"
	case o.Expect == manifest.ExpectFail && o.OK():
		return "failed as expected: " + manifest.Classify(o.Err)
	case o.Expect == manifest.ExpectFail:
		return fmt.Sprintf("expected %s, got %v", o.Reason, o.Err)
	}
	return o.Err.Error()
}

// -----------------------------------------------------------------------------
// eval
// -----------------------------------------------------------------------------

func cmdEval(args []string, out io.Writer) int {
	if len(args) == 0 {
		log.Printf("usage: %s eval <expr> [name=value ...]", appName)
		return 2
	}

	scope := eval.MapScope{}
	for _, a := range args[1:] {
		name, v, err := parseAssignment(a, scope)
		if err != nil {
			log.Print(err)
			return 2
		}
		scope[name] = v
	}

	prog, err := eval.Compile(args[0])
	if err != nil {
		log.Print(err)
		return 1
	}
	v, err := prog.Value(scope)
	if err != nil {
		log.Print(err)
		return 1
	}
	fmt.Fprintln(out, v)
	if res, err := eval.ToResult(v); err == nil {
		fmt.Fprintf(out, "axes: %s\n", check.FormatShape(res.Dims))
	} else {
		fmt.Fprintf(out, "not a splice: %v\n", err)
	}
	return 0
}

// parseAssignment splits "name=value" and decodes value. See parseValue.
func parseAssignment(s string, scope eval.Scope) (string, eval.Value, error) {
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return "", nil, errors.Errorf("%q: expected name=value", s)
	}
	name := strings.TrimSpace(s[:i])
	if !isIdent(name) {
		return "", nil, errors.Errorf("%q: invalid name %q", s, name)
	}
	v, err := parseValue(strings.TrimSpace(s[i+1:]), scope)
	if err != nil {
		return "", nil, errors.WithMessagef(err, "%s", name)
	}
	return name, v, nil
}

// parseValue decodes src as YAML flow syntax ([3, 4], {shape: [3, 4]}, 8).
// A plain string is evaluated as an expression in scope, so (3, 4) and
// s1 + (5,) work too.
func parseValue(src string, scope eval.Scope) (eval.Value, error) {
	var x any
	if err := yaml.Unmarshal([]byte(src), &x); err != nil {
		return nil, errors.Wrap(err, "parsing value")
	}
	switch x := x.(type) {
	case nil:
		return nil, errors.New("missing value")
	case string:
		prog, err := eval.Compile(x)
		if err != nil {
			return nil, err
		}
		return prog.Value(scope)
	}
	return eval.FromGo(x)
}

func isIdent(s string) bool {
	l := lexer.New(s)
	return l.NextToken().Type == ast.IDENT && l.NextToken().Type == ast.EOF
}
