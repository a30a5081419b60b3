package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"shelf/internal/book"
)

var errTitleRequired = errors.New("title is required")

func newChapterCommand() *Command {
	flags := flag.NewFlagSet("new-chapter", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "new-chapter <title>",
		Short: "Create a chapter directory",
		Long: `Create a chapter directory under the content root. The directory
name is the sanitized form of the title; the chapter appears in the
index once it holds a topic.`,
		Exec: func(_ context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) == 0 || args[0] == "" {
				return errTitleRequired
			}

			slug, err := book.CreateChapter(cfg, args[0], true)
			if err != nil {
				return err
			}

			o.Println(slug)

			return nil
		},
	}
}
