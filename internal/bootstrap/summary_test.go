package bootstrap

import (
	"strings"
	"testing"
)

func TestResult_String_Pass(t *testing.T) {
	r := &Result{
		FailedIdx: -1,
		Stages: []StageResult{
			{Name: StagePrecondition, Status: "pass"},
			{Name: StageBaseTool, Status: "skipped"},
		},
	}
	out := r.String()
	if !strings.HasPrefix(out, "ok\n") {
		t.Errorf("summary = %q, want ok header", out)
	}
	if !strings.Contains(out, "base-tool") || !strings.Contains(out, " -\n") {
		t.Errorf("summary = %q, want skipped stage marker", out)
	}
}

func TestResult_String_FailureDetail(t *testing.T) {
	detail := strings.Repeat("line\n", 30)
	r := &Result{
		FailedIdx: 0,
		Stages:    []StageResult{{Name: StageProvision, Status: "fail", Detail: detail}},
	}
	out := r.String()
	if !strings.HasPrefix(out, "FAIL\n") {
		t.Errorf("summary = %q, want FAIL header", out)
	}
	if !strings.Contains(out, "provision failed:") {
		t.Errorf("summary = %q, want failed stage name", out)
	}
	if !strings.Contains(out, "(10 more lines)") {
		t.Errorf("summary = %q, want truncated detail", out)
	}
}
