package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"lightcull/internal/tui"
	"lightcull/internal/watch"
)

func newThumbsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "thumbs <folder>",
		Short: "Generate thumbnails for every pair of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			bar := progressbar.NewOptions(len(pairs),
				progressbar.OptionSetWriter(opts.errOut),
				progressbar.OptionSetDescription("Generating thumbnails"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			pairs = s.workflow.GenerateThumbnails(cmd.Context(), pairs, func(current, total int) {
				_ = bar.Set(current)
			})
			_ = bar.Finish()

			s.printer.PrintThumbnails(pairs, s.thumbs.CacheDirectory())
			return cmd.Context().Err()
		},
	}
}

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <folder>",
		Short: "Cull a folder interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the full-screen view; errors are shown inside it.
			errOut := opts.errOut
			opts.errOut = io.Discard
			defer func() { opts.errOut = errOut }()

			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			watcher, err := watch.NewWatcher(opts.cfg.WatchDebounce(), s.logger)
			if err != nil {
				return userError(err)
			}
			defer watcher.Close()
			if err := watcher.Watch(s.workflow.Folder()); err != nil {
				s.logger.Warnf("Not watching %s: %v", s.workflow.Folder(), err)
			}

			return tui.Run(cmd.Context(), tui.Options{
				Workflow: s.workflow,
				Pairs:    pairs,
				Changes:  watcher.Changes(),
			})
		},
	}
}
