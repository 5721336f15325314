package deps_test

import (
	"testing"

	"iconforge/internal/config"
	"iconforge/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "missing tool", Command: "definitely-not-a-real-binary-xyz"},
		{Name: "shell", Command: "sh"},
		{Name: "unconfigured", Command: "  "},
	})
	if len(statuses) != 3 {
		t.Fatalf("statuses = %d", len(statuses))
	}
	if statuses[0].Available {
		t.Error("missing binary reported available")
	}
	if !statuses[1].Available {
		t.Errorf("sh reported unavailable: %s", statuses[1].Detail)
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Errorf("unconfigured requirement: %+v", statuses[2])
	}
}

func TestRequirementsUseConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.ImageGen.Binary = "/opt/render"
	cfg.BGRemove.Binary = "/opt/strip"
	reqs := deps.Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("requirements = %d", len(reqs))
	}
	if reqs[0].Command != "/opt/render" || reqs[1].Command != "/opt/strip" {
		t.Fatalf("commands = %q, %q", reqs[0].Command, reqs[1].Command)
	}
}
