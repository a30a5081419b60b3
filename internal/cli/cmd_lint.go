package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"shelf/internal/book"
	"shelf/internal/index"
)

func lintCommand() *Command {
	flags := flag.NewFlagSet("lint", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "lint",
		Short: "Check topics and the index for structural problems",
		Long: `Report topic files with more than one top-level heading (two
articles pasted into one file) and index entries whose link target
does not exist on disk. Exit code 1 when anything is flagged.`,
		Exec: func(_ context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			scan, err := book.Scan(cfg)
			if err != nil {
				return err
			}

			for _, warning := range scan.Warnings {
				o.Warn(warning, "split or fix the file so it has exactly one H1")
			}

			checked, broken := lintIndexLinks(o, cfg, scan)

			topics := 0
			for _, chapter := range scan.Chapters {
				topics += len(chapter.Topics)
			}

			o.Printf("checked %d topics, %d index links, %d broken\n", topics, checked, broken)

			return nil
		},
	}
}

// lintIndexLinks verifies the round-trip between the README managed
// section and the disk scan: every link target must exist, and every
// topic on disk must appear exactly once. Returns the number of links
// checked and the number of broken ones.
func lintIndexLinks(o *IO, cfg book.Config, scan book.ScanResult) (checked, broken int) {
	readme, err := os.ReadFile(cfg.ReadmeAbs)
	if err != nil {
		if os.IsNotExist(err) {
			o.Warn("no "+cfg.Readme+" found", "run shelf sync to create the index")

			return 0, 0
		}

		o.Warn(fmt.Sprintf("reading %s: %v", cfg.Readme, err), "check file permissions")

		return 0, 0
	}

	sectionText, found := index.ManagedSection(readme, cfg.Section)
	if !found {
		o.Warn("no managed section in "+cfg.Readme, "run shelf sync to create the index")

		return 0, 0
	}

	links := index.ParseLinks(sectionText)
	indexed := make(map[string]int, len(links))

	for _, link := range links {
		relPath := link.RelPath()
		indexed[relPath]++

		if _, statErr := os.Stat(filepath.Join(cfg.RootAbs, filepath.FromSlash(relPath))); statErr != nil {
			o.Warn("broken index link: "+relPath, "remove the entry or restore the file, then run shelf sync")

			broken++
		}
	}

	for _, chapter := range scan.Chapters {
		for _, topic := range chapter.Topics {
			switch indexed[topic.RelPath] {
			case 1:
				// In sync.
			case 0:
				o.Warn("topic missing from index: "+topic.RelPath, "run shelf sync")
			default:
				o.Warn("topic indexed more than once: "+topic.RelPath, "run shelf sync")
			}
		}
	}

	return len(links), broken
}
