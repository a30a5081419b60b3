package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"shelf/internal/book"
)

var errOutlineFileRequired = errors.New("outline file is required (or - for stdin)")

func outlineCommand() *Command {
	flags := flag.NewFlagSet("outline", flag.ContinueOnError)
	sync := flags.Bool("sync", true, "Regenerate the README index afterwards")

	return &Command{
		Flags: flags,
		Usage: "outline <file|->",
		Short: "Create chapters and topic skeletons from a YAML outline",
		Long: `Read a YAML outline of (chapter, topics) pairs and create every
chapter directory and topic skeleton in one batch:

    - chapter: Frontend Security
      topics:
        - Cross-Site Scripting (XSS)
        - Cross-Site Request Forgery (CSRF)

A failing entry does not stop the batch; failures are summarized at
the end. Existing topics are left untouched and reported.`,
		Exec: func(_ context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) == 0 || args[0] == "" {
				return errOutlineFileRequired
			}

			data, err := readOutline(o.In(), cfg, args[0])
			if err != nil {
				return err
			}

			entries, err := book.ParseOutline(data)
			if err != nil {
				return err
			}

			result := book.ApplyOutline(cfg, entries)

			for _, relPath := range result.Created {
				o.Println(relPath)
			}

			for _, failure := range result.Failed {
				o.Warn(failure, "fix the outline entry and re-run shelf outline")
			}

			o.Printf("created %d topics, %d failed\n", len(result.Created), len(result.Failed))

			if *sync {
				return syncIndex(o, cfg, false)
			}

			return nil
		},
	}
}

func readOutline(in io.Reader, cfg book.Config, arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading outline from stdin: %w", err)
		}

		return data, nil
	}

	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.EffectiveCwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}

	return data, nil
}
