package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"shelf/internal/book"
	"shelf/internal/index"
)

var errIndexOutOfDate = errors.New("index is out of date (run shelf sync)")

func syncCommand() *Command {
	flags := flag.NewFlagSet("sync", flag.ContinueOnError)
	check := flags.Bool("check", false, "Verify the index matches disk without writing")

	return &Command{
		Flags: flags,
		Usage: "sync [--check]",
		Short: "Regenerate the README chapter/topic index",
		Long: `Scan the content root and rewrite the managed section of the
README so it lists every chapter and topic on disk. Hand-written
prose outside the managed section is preserved. The scan is
authoritative: a manually edited managed section is reported as
drift and overwritten.`,
		Exec: func(_ context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			return syncIndex(o, cfg, *check)
		},
	}
}

// syncIndex runs the synchronizer (or the dry-run check) and reports
// the outcome. Shared with new-topic and outline, which sync after
// creating content.
func syncIndex(o *IO, cfg book.Config, checkOnly bool) error {
	scan, err := book.Scan(cfg)
	if err != nil {
		return err
	}

	for _, warning := range scan.Warnings {
		o.Warn(warning, "fix the file, then re-run shelf sync")
	}

	topics := 0
	for _, chapter := range scan.Chapters {
		topics += len(chapter.Topics)
	}

	if checkOnly {
		upToDate, err := index.Check(cfg, scan)
		if err != nil {
			return err
		}

		if !upToDate {
			return errIndexOutOfDate
		}

		o.Printf("index up to date (%d chapters, %d topics)\n", len(scan.Chapters), topics)

		return nil
	}

	outcome, err := index.Sync(cfg, scan)
	if err != nil {
		return err
	}

	if outcome.Drift {
		o.Warn("index drift: discarded entries not backed by disk: "+strings.Join(outcome.Dropped, ", "),
			"manual edits inside the managed section were overwritten")
	}

	switch {
	case outcome.Created:
		o.Printf("created %s (%d chapters, %d topics)\n", cfg.Readme, len(scan.Chapters), topics)
	case outcome.Wrote:
		o.Printf("updated %s (%d chapters, %d topics)\n", cfg.Readme, len(scan.Chapters), topics)
	default:
		o.Printf("index up to date (%d chapters, %d topics)\n", len(scan.Chapters), topics)
	}

	return nil
}
