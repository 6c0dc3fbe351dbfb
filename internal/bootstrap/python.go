package bootstrap

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"golang.org/x/mod/semver"
)

var pythonVersionRE = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// parsePythonVersion extracts a semver string ("v3.11.4") from the output
// of `python --version`. Python 2 prints it on stderr, so callers pass
// both streams.
func parsePythonVersion(out string) (string, bool) {
	m := pythonVersionRE.FindStringSubmatch(out)
	if m == nil {
		return "", false
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v := fmt.Sprintf("v%s.%s.%s", m[1], m[2], patch)
	return v, semver.IsValid(v)
}

// normalizeMin turns "3.7" into "v3.7".
func normalizeMin(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// checkPython verifies the interpreter used for pip and pipx is at least
// the configured minimum. The probe runs with failure checking disabled so its output can be
// reported.
func (p *pass) checkPython(ctx context.Context) error {
	python := p.cfg.Python()
	minimum := normalizeMin(p.cfg.MinPython())
	req := fmt.Sprintf("%s >= %s", python, strings.TrimPrefix(minimum, "v"))
	if !semver.IsValid(minimum) {
		return fmt.Errorf("invalid minimum python version %q", p.cfg.MinPython())
	}

	out, err := p.Run(ctx, runner.Cmd(python, "--version"), false)
	if err != nil {
		return &PreconditionError{Requirement: req, Err: err}
	}
	detail := strings.TrimSpace(out.Stdout + out.Stderr)
	if out.ExitCode != 0 {
		return &PreconditionError{
			Requirement: req,
			Detail:      detail,
			Err:         fmt.Errorf("%s --version exited %d", python, out.ExitCode),
		}
	}

	found, ok := parsePythonVersion(out.Stdout + "\n" + out.Stderr)
	if !ok {
		return &PreconditionError{Requirement: req, Detail: detail, Err: fmt.Errorf("unrecognised version output")}
	}
	if semver.Compare(found, minimum) < 0 {
		return &PreconditionError{Requirement: req, Found: strings.TrimPrefix(found, "v")}
	}
	p.log.Info("python ok", "version", strings.TrimPrefix(found, "v"))
	return nil
}
