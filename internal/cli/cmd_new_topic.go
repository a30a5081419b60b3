package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"shelf/internal/book"
)

var errChapterAndTitleRequired = errors.New("chapter and title are required")

func newTopicCommand() *Command {
	flags := flag.NewFlagSet("new-topic", flag.ContinueOnError)
	sync := flags.Bool("sync", true, "Regenerate the README index afterwards")

	return &Command{
		Flags: flags,
		Usage: "new-topic <chapter> <title>",
		Short: "Create a topic skeleton in a chapter",
		Long: `Create a markdown skeleton for a topic inside the given chapter
(created if missing). The file carries the original title in
frontmatter and as the H1. Prints the path relative to the content
root. Refuses to overwrite an existing topic.`,
		Exec: func(_ context.Context, o *IO, cfg book.Config, args []string) error {
			if len(args) < 2 || args[0] == "" || args[1] == "" {
				return errChapterAndTitleRequired
			}

			relPath, err := book.CreateTopic(cfg, args[0], args[1])
			if err != nil {
				return err
			}

			o.Println(relPath)

			if *sync {
				return syncIndex(o, cfg, false)
			}

			return nil
		},
	}
}
