package bootstrap

import (
	"fmt"
	"strings"
)

// maxDetailLines caps how much of a failure detail a summary shows.
const maxDetailLines = 20

// String renders the stage table followed by the failure detail, if any.
func (r *Result) String() string {
	var b strings.Builder

	if r.FailedIdx < 0 {
		fmt.Fprintln(&b, "ok")
	} else {
		fmt.Fprintln(&b, "FAIL")
	}
	fmt.Fprintln(&b)

	for _, s := range r.Stages {
		switch s.Status {
		case "pass":
			fmt.Fprintf(&b, "  %-14s ok\n", s.Name)
		case "fail":
			fmt.Fprintf(&b, "  %-14s FAIL\n", s.Name)
		default:
			fmt.Fprintf(&b, "  %-14s -\n", s.Name)
		}
	}

	if r.Tool != nil {
		fmt.Fprintf(&b, "\nTool: %s (%s)\n", r.Tool.Path, r.Tool.Version)
	}
	if r.Env != nil {
		fmt.Fprintf(&b, "Build root: %s\n", r.Env.BuildRoot)
		for _, t := range r.Env.Targets {
			fmt.Fprintf(&b, "  %-8s %s\n", t.Name, t.Root)
		}
	}

	if r.FailedIdx >= 0 {
		fmt.Fprintf(&b, "\n%s failed:\n%s\n", r.Stages[r.FailedIdx].Name, truncateLines(r.Stages[r.FailedIdx].Detail, maxDetailLines))
	}
	return b.String()
}

func truncateLines(s string, maxLines int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxLines)
}
