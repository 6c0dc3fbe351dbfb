package runner

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a structured program invocation. It is rendered to a quoted
// command line only when handed to the interpreter, so arguments never
// need manual escaping.
type Command struct {
	Program string
	Args    []string
	Dir     string // empty means the process's current directory at run time
}

// Cmd builds a Command from a program and its arguments.
func Cmd(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	c.Args = append([]string(nil), c.Args...)
	return c
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command as a shell command line. Words that cannot
// be quoted (for example ones holding a NUL byte) are rendered with %q.
func (c Command) String() string {
	line, err := c.quote()
	if err != nil {
		parts := make([]string, 0, len(c.Args)+1)
		for _, w := range c.Argv() {
			parts = append(parts, strconv.Quote(w))
		}
		return strings.Join(parts, " ")
	}
	return line
}

func (c Command) quote() (string, error) {
	words := c.Argv()
	parts := make([]string, 0, len(words))
	for _, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", err
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}
