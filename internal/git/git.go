// Package git provides typed access to the git CLI for the publish
// workflow. All commands target a specific repository directory via
// the -C flag, which every Repository method injects.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNothingToCommit reports a publish attempt on a clean working
// tree. The publisher treats it as a terminal, non-error condition:
// nothing is committed and push is never attempted.
var ErrNothingToCommit = errors.New("nothing to commit")

// Repository represents a git repository at a specific directory.
// There is no default directory — callers must always specify which
// repository they mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is captured separately and included in error
// messages on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)

	var stdout, stderr bytes.Buffer

	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// HasChanges reports whether the working tree has anything to stage
// or commit, via porcelain status.
func (r *Repository) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(out) != "", nil
}

// Stage stages the given paths, or everything under the repository
// when no paths are given.
func (r *Repository) Stage(ctx context.Context, paths ...string) error {
	args := []string{"add", "--"}

	if len(paths) == 0 {
		args = append(args, ".")
	} else {
		args = append(args, paths...)
	}

	_, err := r.Run(ctx, args...)

	return err
}

// Commit records the staged changes with the given message. A clean
// index yields ErrNothingToCommit.
func (r *Repository) Commit(ctx context.Context, message string) error {
	staged, err := r.Run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return err
	}

	if strings.TrimSpace(staged) == "" {
		return ErrNothingToCommit
	}

	_, err = r.Run(ctx, "commit", "-m", message)

	return err
}

// Push pushes to the remote. With an empty branch the current branch
// is pushed (plain "git push"). Callers gate this behind explicit
// confirmation; Push itself never prompts.
func (r *Repository) Push(ctx context.Context, remote, branch string) error {
	args := []string{"push"}

	if remote != "" {
		args = append(args, remote)

		if branch != "" {
			args = append(args, branch)
		}
	}

	_, err := r.Run(ctx, args...)

	return err
}

// UserName returns git's configured user.name, or empty when unset.
func (r *Repository) UserName(ctx context.Context) string {
	out, err := r.Run(ctx, "config", "user.name")
	if err != nil {
		return ""
	}

	return strings.TrimSpace(out)
}
