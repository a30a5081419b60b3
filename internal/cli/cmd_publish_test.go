package cli

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitIn runs a git command in dir and fails the test on error.
func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()

	command := exec.Command("git", append([]string{"-C", dir}, args...)...)

	output, err := command.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, output)
	}

	return strings.TrimSpace(string(output))
}

// initPublishRepo turns the harness directory into a git repository
// with an initial commit and a bare origin remote.
func initPublishRepo(t *testing.T, r *CLI) {
	t.Helper()

	gitIn(t, r.Dir, "init")
	gitIn(t, r.Dir, "config", "user.name", "Test")
	gitIn(t, r.Dir, "config", "user.email", "test@test.local")

	r.WriteFile("agent-reference.md", "# Workflow\n")
	gitIn(t, r.Dir, "add", ".")
	gitIn(t, r.Dir, "commit", "-m", "initial")

	bare := filepath.Join(t.TempDir(), "origin.git")
	gitIn(t, r.Dir, "init", "--bare", bare)
	gitIn(t, r.Dir, "remote", "add", "origin", bare)

	branch := gitIn(t, r.Dir, "rev-parse", "--abbrev-ref", "HEAD")
	r.WriteFile(".shelf.json", `{"branch": "`+branch+`"}`)
	gitIn(t, r.Dir, "add", ".shelf.json")
	gitIn(t, r.Dir, "commit", "-m", "config")
}

func TestPublishNothingToCommit(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	stdout := r.MustRun("publish")
	assertContains(t, stdout, "nothing to commit")

	// No commit beyond the setup ones, and nothing pushed.
	count := gitIn(t, r.Dir, "rev-list", "--count", "HEAD")
	if count != "2" {
		t.Errorf("commit count = %s, want 2", count)
	}
}

func TestPublishDeclinedLeavesCommitLocal(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Frontend-Security", "Cross-Site-Scripting-XSS.md",
		"---\ntitle: Cross-Site Scripting (XSS)\n---\n\n# Cross-Site Scripting (XSS)\n")

	stdout, stderr, code := r.RunWithInput("n\n", "publish")
	if code != 0 {
		t.Fatalf("declining must exit cleanly, got %d\nstderr: %s", code, stderr)
	}

	assertContains(t, stdout, "committed: docs: Add content for Frontend Security, Cross-Site Scripting (XSS)")
	assertContains(t, stdout, "publish aborted")

	// Commit exists locally, origin never received it.
	count := gitIn(t, r.Dir, "rev-list", "--count", "HEAD")
	if count != "3" {
		t.Errorf("commit count = %s, want 3", count)
	}

	origin := gitIn(t, r.Dir, "remote", "get-url", "origin")

	lsRemote := gitIn(t, r.Dir, "ls-remote", origin)
	if lsRemote != "" {
		t.Errorf("origin should be empty, got:\n%s", lsRemote)
	}
}

func TestPublishConfirmedPushes(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Chapter", "Topic.md", "# Topic\n")

	stdout, stderr, code := r.RunWithInput("y\n", "publish")
	if code != 0 {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr)
	}

	assertContains(t, stdout, "pushed to origin")

	origin := gitIn(t, r.Dir, "remote", "get-url", "origin")

	lsRemote := gitIn(t, r.Dir, "ls-remote", origin)
	if lsRemote == "" {
		t.Error("origin received nothing")
	}
}

func TestPublishYesSkipsPrompt(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Chapter", "Topic.md", "# Topic\n")

	// Empty stdin: would decline if prompted.
	stdout := r.MustRun("publish", "--yes")
	assertContains(t, stdout, "pushed to origin")
}

func TestPublishEOFDeclines(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Chapter", "Topic.md", "# Topic\n")

	// Abandoned confirmation: no push, clean exit, commit kept.
	stdout, _, code := r.RunWithInput("", "publish")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	assertContains(t, stdout, "publish aborted")
}

func TestPublishCustomMessage(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Chapter", "Topic.md", "# Topic\n")

	r.MustRun("publish", "-m", "docs: Import security chapter", "--yes")

	subject := gitIn(t, r.Dir, "log", "-1", "--pretty=%s")
	if subject != "docs: Import security chapter" {
		t.Errorf("subject = %q", subject)
	}
}

func TestPublishBatchMessage(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	r.WriteTopic("Chapter", "One.md", "# One\n")
	r.WriteTopic("Chapter", "Two.md", "# Two\n")
	r.WriteTopic("Other-Chapter", "Three.md", "# Three\n")

	r.MustRun("publish", "--yes")

	subject := gitIn(t, r.Dir, "log", "-1", "--pretty=%s")
	if subject != "docs: Add content for 3 topics" {
		t.Errorf("subject = %q", subject)
	}
}

func TestPublishIndexOnlyMessage(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	initPublishRepo(t, r)

	// README changed but no new topics.
	r.WriteFile("README.md", "# Docs\n\n## Chapters and Topics\n")

	r.MustRun("publish", "--yes")

	subject := gitIn(t, r.Dir, "log", "-1", "--pretty=%s")
	if subject != "docs: Update content index" {
		t.Errorf("subject = %q", subject)
	}
}
