// Package cli implements the lightcull command-line interface.
package cli

import (
	"errors"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lightcull/internal/config"
	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
)

// options holds the global flags. Flags win over the environment and the config file.
type options struct {
	configPath string
	cacheDir   string
	verbose    bool
	workers    int

	cfg    config.Config
	out    io.Writer
	errOut io.Writer
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "lightcull",
		Short: "Cull JPEG+RAF photo pairs without splitting them",
		Long: `LightCull treats a camera's JPEG and its RAF sibling as one unit.

Tag keepers, move rejects to _toDelete, _Archive or _Outtakes, undo the last move and
prefix-rename pairs. Every operation touches both files or neither.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/lightcull/config.toml)")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "Directory for thumbnails and the undo journal")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent thumbnail workers (0 = number of CPUs)")

	cmd.AddCommand(
		newScanCmd(opts),
		newStatsCmd(opts),
		newInfoCmd(opts),
		newTagCmd(opts),
		newMoveCmd(opts, "delete", domain.DeleteFolder),
		newMoveCmd(opts, "archive", domain.ArchiveFolder),
		newMoveCmd(opts, "outtake", domain.OuttakeFolder),
		newUndoCmd(opts),
		newHistoryCmd(opts),
		newRenameCmd(opts),
		newThumbsCmd(opts),
		newClearCacheCmd(opts),
		newBrowseCmd(opts),
	)

	return cmd
}

func (o *options) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return userError(err)
	}
	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = o.cacheDir
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if flags.Changed("workers") {
		cfg.ThumbnailWorkers = o.workers
	}
	if err := cfg.Validate(); err != nil {
		return userError(err)
	}
	o.cfg = cfg
	o.out = cmd.OutOrStdout()
	o.errOut = cmd.ErrOrStderr()
	return nil
}

// userError replaces an error with the message meant for people.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(appErrors.UserMessage(err))
}
