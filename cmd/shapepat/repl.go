package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/metaphox/shapepat/check"
	"github.com/metaphox/shapepat/eval"
)

const (
	historyFile = ".shapepat_history"
	promptMain  = "shape> "
)

var (
	banner   = fmt.Sprintf("%s %s\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", appName, version)
	helpText = `Enter <pattern> : <shape> to check a shape, e.g.  *batch *{s} c : (2, 3, 4)
All checks share one episode until :reset.

Commands:
  :let name = value   Add a name to the splice scope (YAML or an expression)
  :scope              List the scope
  :bindings           Show the episode's bindings
  :reset              Start a new episode (the scope is kept)
  :help               Show this text
  :quit               Exit
`
)

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(os.Stdout)
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			log.Print(err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.exec(line) {
			break
		}
	}
	return 0
}

// session is the REPL state: a persistent scope and the current episode.
type session struct {
	out     io.Writer
	checker *check.Checker
	scope   eval.MapScope
	ep      *check.Episode
	n       int // checks in the current episode
}

func newSession(out io.Writer) *session {
	s := &session{out: out, checker: check.NewChecker(), scope: eval.MapScope{}}
	s.reset()
	return s
}

func (s *session) reset() {
	// The episode holds the scope map itself, so later :let lines are visible.
	s.ep = s.checker.Begin(s.scope)
	s.n = 0
}

// exec runs one input line and reports whether the session should end.
func (s *session) exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	src, shape, err := s.splitCheck(line)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}
	s.n++
	err = s.ep.Check(check.Argument{Name: fmt.Sprintf("#%d", s.n), Pattern: src, Shape: shape})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(s.out, "ok  %s\n", s.ep.Context())
	return false
}

func (s *session) command(line string) (quit bool) {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":reset":
		s.reset()
		fmt.Fprintln(s.out, "new episode")
	case ":bindings":
		fmt.Fprintf(s.out, "[%s]\n", s.ep.Context())
	case ":scope":
		for _, name := range sortedNames(s.scope) {
			fmt.Fprintf(s.out, "%s = %s\n", name, s.scope[name])
		}
	case ":let":
		name, v, err := parseAssignment(rest, s.scope)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		s.scope[name] = v
		fmt.Fprintf(s.out, "%s = %s\n", name, v)
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

// splitCheck splits "<pattern> : <shape>" at the last colon. The shape is an
// expression evaluated in the session scope, so (2, 3), [2, 3], s1 + (4,)
// and () are all accepted.
func (s *session) splitCheck(line string) (string, []int, error) {
	i := strings.LastIndexByte(line, ':')
	if i < 0 {
		return "", nil, errors.New("expected <pattern> : <shape>")
	}
	src, shapeSrc := strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
	if shapeSrc == "" {
		return "", nil, errors.New("missing shape after ':'")
	}
	res, err := eval.Evaluate(shapeSrc, s.scope)
	if err != nil {
		return "", nil, errors.WithMessage(err, "shape")
	}
	return src, res.Dims, nil
}

func sortedNames(scope eval.MapScope) []string {
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
