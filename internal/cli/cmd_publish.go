package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"shelf/internal/book"
	"shelf/internal/git"
)

func publishCommand() *Command {
	flags := flag.NewFlagSet("publish", flag.ContinueOnError)
	message := flags.StringP("message", "m", "", "Commit message (overrides the generated one)")
	yes := flags.Bool("yes", false, "Pre-approve the push (no prompt)")

	return &Command{
		Flags: flags,
		Usage: "publish [-m <msg>] [--yes]",
		Short: "Stage, commit, and (after confirmation) push",
		Long: `Stage content changes, commit them with a generated docs message,
and push to the configured remote. The push waits for explicit
confirmation and is never run automatically; declining leaves the
commit local and exits cleanly. A clean working tree reports
"nothing to commit" and publishes nothing.`,
		Exec: func(ctx context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			return publish(ctx, o, cfg, *message, *yes)
		},
	}
}

func publish(ctx context.Context, o *IO, cfg book.Config, message string, preApproved bool) error {
	repo := git.NewRepository(cfg.RootAbs)

	hasChanges, err := repo.HasChanges(ctx)
	if err != nil {
		return err
	}

	if !hasChanges {
		o.Println("nothing to commit")

		return nil
	}

	added, err := addedTopics(ctx, repo, cfg)
	if err != nil {
		return err
	}

	if err := repo.Stage(ctx); err != nil {
		return err
	}

	if message == "" {
		message = commitMessage(cfg, added, topicTitles(cfg))
	}

	if err := repo.Commit(ctx, message); err != nil {
		if errors.Is(err, git.ErrNothingToCommit) {
			o.Println("nothing to commit")

			return nil
		}

		return err
	}

	o.Println("committed:", message)

	if !preApproved {
		target := cfg.Remote
		if cfg.Branch != "" {
			target += "/" + cfg.Branch
		}

		approved, promptErr := confirm(o, fmt.Sprintf("Push to %s? [y/N] ", target))
		if promptErr != nil {
			return promptErr
		}

		if !approved {
			o.Println("publish aborted: commit kept locally, nothing pushed")

			return nil
		}
	}

	if err := repo.Push(ctx, cfg.Remote, cfg.Branch); err != nil {
		return err
	}

	o.Println("pushed to", cfg.Remote)

	return nil
}

// addedTopics lists not-yet-tracked topic files from porcelain status,
// before staging, so the commit message can name what the batch added.
func addedTopics(ctx context.Context, repo *git.Repository, cfg book.Config) ([]string, error) {
	out, err := repo.Run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	var added []string

	for _, line := range strings.SplitAfter(out, "\n") {
		line = strings.TrimRight(line, "\n")
		if len(line) < 4 {
			continue
		}

		status, path := line[:2], strings.TrimSpace(line[3:])
		if status != "??" && status != "A " {
			continue
		}

		// Untracked directories show as "dir/"; list their contents.
		if strings.HasSuffix(path, "/") {
			inner, innerErr := untrackedWithin(ctx, repo, path)
			if innerErr != nil {
				return nil, innerErr
			}

			added = append(added, inner...)

			continue
		}

		if isTopicPath(cfg, path) {
			added = append(added, path)
		}
	}

	return added, nil
}

func untrackedWithin(ctx context.Context, repo *git.Repository, dir string) ([]string, error) {
	out, err := repo.Run(ctx, "ls-files", "--others", "--exclude-standard", "--", dir)
	if err != nil {
		return nil, err
	}

	var paths []string

	for _, line := range strings.SplitAfter(out, "\n") {
		line = strings.TrimRight(line, "\n")
		if line != "" {
			paths = append(paths, line)
		}
	}

	return paths, nil
}

// isTopicPath reports whether a repo-relative path looks like a topic
// document: a .md file one level inside a chapter directory.
func isTopicPath(cfg book.Config, path string) bool {
	dir, file, found := strings.Cut(path, "/")
	if !found || strings.Contains(file, "/") {
		return false
	}

	if !strings.HasSuffix(strings.ToLower(file), ".md") {
		return false
	}

	return dir != "" && !strings.HasPrefix(dir, ".") && file != cfg.Readme
}

// topicTitles maps root-relative topic paths to display titles. Used
// for commit messages only, so a failing scan degrades to de-slugged
// names instead of failing the publish.
func topicTitles(cfg book.Config) map[string]string {
	scan, err := book.Scan(cfg)
	if err != nil {
		return nil
	}

	titles := make(map[string]string)

	for _, chapter := range scan.Chapters {
		for _, topic := range chapter.Topics {
			titles[topic.RelPath] = topic.Title
		}
	}

	return titles
}

// commitMessage generates the docs commit message: the single-topic
// form names the chapter and topic, a batch gets the summary form.
func commitMessage(cfg book.Config, added []string, titles map[string]string) string {
	topicish := added[:0:0]

	for _, path := range added {
		if isTopicPath(cfg, path) {
			topicish = append(topicish, path)
		}
	}

	switch len(topicish) {
	case 0:
		return "docs: Update content index"
	case 1:
		dir, file, _ := strings.Cut(topicish[0], "/")

		topic := titles[topicish[0]]
		if topic == "" {
			topic = book.Deslug(strings.TrimSuffix(file, ".md"))
		}

		return fmt.Sprintf("docs: Add content for %s, %s", book.Deslug(dir), topic)
	default:
		return fmt.Sprintf("docs: Add content for %d topics", len(topicish))
	}
}

// confirm blocks until the operator answers. There is no timeout: an
// abandoned prompt simply leaves the commit local, which is a safe,
// recoverable state. Interactive sessions get a liner prompt; piped
// input is read line-wise so scripts and tests can answer.
func confirm(o *IO, prompt string) (bool, error) {
	if file, ok := o.In().(*os.File); ok && file == os.Stdin && liner.TerminalSupported() {
		state := liner.NewLiner()
		defer func() { _ = state.Close() }()

		state.SetCtrlCAborts(true)

		answer, err := state.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return false, nil
			}

			return false, fmt.Errorf("reading confirmation: %w", err)
		}

		return isYes(answer), nil
	}

	o.Printf("%s", prompt)

	scanner := bufio.NewScanner(o.In())
	if !scanner.Scan() {
		// EOF without an answer is a decline, not an error.
		return false, scanner.Err()
	}

	return isYes(scanner.Text()), nil
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
