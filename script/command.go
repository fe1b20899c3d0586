// Package script runs scripted test sequences against the sample viewer and
// collects their results, including screenshot comparisons.
package script

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/tools/txtar"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
)

// Pos is a location in a suite.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Command is one parsed script line.
type Command struct {
	Pos  Pos
	Verb string
	Args []string

	// Duration is set for idle, Frames for idleframes.
	Duration time.Duration
	Frames   int
}

func (c Command) String() string {
	return strings.TrimSpace(c.Verb + " " + strings.Join(c.Args, " "))
}

// Script is the command list of one suite file.
type Script struct {
	Name     string
	Commands []Command
}

// ParseError locates a parse failure.
type ParseError struct {
	Pos Pos
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var arity = map[string]int{
	"sample":     1,
	"idle":       1,
	"idleframes": 1,
	"set":        2,
	"capture":    1,
	"compare":    1,
}

// fields splits a line on spaces. Double-quoted fields may contain spaces
// and Go escapes.
func fields(line string) ([]string, error) {
	var out []string
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" || line[0] == '#' {
			return out, nil
		}
		if line[0] == '"' {
			quoted, err := strconv.QuotedPrefix(line)
			if err != nil {
				return nil, errors.New("unterminated quote")
			}
			s, _ := strconv.Unquote(quoted)
			out = append(out, s)
			line = line[len(quoted):]
			continue
		}
		end := strings.IndexAny(line, " \t")
		if end < 0 {
			end = len(line)
		}
		out = append(out, line[:end])
		line = line[end:]
	}
}

func parseLine(pos Pos, line string) (Command, bool, error) {
	f, err := fields(line)
	if err != nil {
		return Command{}, false, &ParseError{Pos: pos, Err: err}
	}
	if len(f) == 0 {
		return Command{}, false, nil
	}

	cmd := Command{Pos: pos, Verb: f[0], Args: f[1:]}
	n, ok := arity[cmd.Verb]
	if !ok {
		return Command{}, false, &ParseError{Pos: pos, Err: fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Verb)}
	}
	if len(cmd.Args) != n {
		return Command{}, false, &ParseError{Pos: pos, Err: fmt.Errorf("%w: %s takes %d, got %d", ErrBadArguments, cmd.Verb, n, len(cmd.Args))}
	}

	switch cmd.Verb {
	case "idle":
		secs, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil || secs < 0 {
			return Command{}, false, &ParseError{Pos: pos, Err: fmt.Errorf("%w: idle %q", ErrBadArguments, cmd.Args[0])}
		}
		cmd.Duration = time.Duration(secs * float64(time.Second))
	case "idleframes":
		frames, err := strconv.Atoi(cmd.Args[0])
		if err != nil || frames < 0 {
			return Command{}, false, &ParseError{Pos: pos, Err: fmt.Errorf("%w: idleframes %q", ErrBadArguments, cmd.Args[0])}
		}
		cmd.Frames = frames
	}
	return cmd, true, nil
}

// ParseScript parses one script. Every bad line is reported.
func ParseScript(name string, data []byte) (Script, error) {
	s := Script{Name: name}
	var errs []error
	for i, line := range strings.Split(string(data), "\n") {
		cmd, ok, err := parseLine(Pos{File: name, Line: i + 1}, strings.TrimRight(line, "\r"))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			s.Commands = append(s.Commands, cmd)
		}
	}
	return s, errors.Join(errs...)
}

// ParseSuite parses a txtar archive holding one script per file. The archive
// comment is free text.
func ParseSuite(data []byte) ([]Script, error) {
	ar := txtar.Parse(data)
	scripts := make([]Script, 0, len(ar.Files))
	var errs []error
	for _, f := range ar.Files {
		s, err := ParseScript(f.Name, f.Data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scripts = append(scripts, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return scripts, nil
}

func LoadSuite(path string) ([]Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load suite: %w", err)
	}
	return ParseSuite(data)
}
