package cli

import (
	"github.com/spf13/cobra"

	"lightcull/internal/domain"
	"lightcull/internal/infra/xattr"
)

func newScanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the JPEG+RAF pairs of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			s.printer.PrintPairs(pairs)
			return nil
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <folder>",
		Short: "Count pairs, tagged pairs and files marked for deletion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			stats, err := s.workflow.Statistics()
			if err != nil {
				return userError(err)
			}
			s.printer.PrintStatistics(s.workflow.Folder(), stats)
			return nil
		},
	}
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <folder> <name>",
		Short: "Show camera metadata of a pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			found, err := lookupPairs(pairs, args[1:])
			if err != nil {
				return err
			}
			meta, err := s.workflow.Metadata(cmd.Context(), found[0])
			if err != nil {
				return userError(err)
			}
			s.printer.PrintMetadata(meta)
			return nil
		},
	}
}

func newTagCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <folder> <name>...",
		Short: "Toggle the TOP tag on pairs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			if !xattr.Supported(s.workflow.Folder()) {
				s.logger.Warnf("The filesystem of %s does not support file tags", s.workflow.Folder())
			}
			found, err := lookupPairs(pairs, args[1:])
			if err != nil {
				return err
			}
			toggled := make([]domain.ImagePair, 0, len(found))
			for _, pair := range found {
				updated, err := s.workflow.ToggleTag(pair)
				if err != nil {
					return userError(err)
				}
				toggled = append(toggled, updated)
			}
			s.printer.PrintTagged(toggled)
			return nil
		},
	}
}

func newMoveCmd(opts *options, use, destination string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <folder> <name>...",
		Short: "Move pairs to " + destination,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			found, err := lookupPairs(pairs, args[1:])
			if err != nil {
				return err
			}
			result, err := s.workflow.MoveBatch(found, destination)
			if err != nil {
				return userError(err)
			}
			s.printer.PrintMoveBatch(result, destination)
			if len(result.Failures) > 0 {
				return userError(result.Failures[0].Err)
			}
			return nil
		},
	}
}

func newUndoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <folder>",
		Short: "Reverse the most recent move in the folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			op, err := s.workflow.UndoLastMove()
			if err != nil {
				return userError(err)
			}
			s.printer.PrintUndo(op)
			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <folder>",
		Short: "List the moves undo can reverse, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			s.printer.PrintHistory(s.workflow.History())
			return nil
		},
	}
}

func newRenameCmd(opts *options) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "rename <folder> <name>...",
		Short: "Prefix the file names of pairs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, pairs, err := openFolder(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			found, err := lookupPairs(pairs, args[1:])
			if err != nil {
				return err
			}
			result := s.workflow.RenameBatch(found, prefix)
			s.printer.PrintRenameBatch(result, found)
			if len(result.Failures) > 0 {
				return userError(result.Failures[0].Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Prefix to put in front of the file names")
	_ = cmd.MarkFlagRequired("prefix")
	return cmd
}

func newClearCacheCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove all cached thumbnails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return userError(err)
			}
			defer s.Close()
			s.workflow.ClearThumbnailCache()
			s.logger.Infof("Cleared %s", s.thumbs.Root())
			return nil
		},
	}
}
