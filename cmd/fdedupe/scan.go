package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyorgys/fdedupe/cmd"
	"github.com/gyorgys/fdedupe/pkg/config"
	"github.com/gyorgys/fdedupe/pkg/logging"
	"github.com/gyorgys/fdedupe/pkg/scan"
)

func scanMain(command *cobra.Command, arguments []string) error {
	roots, err := canonicalizeRoots(arguments)
	if err != nil {
		return err
	}

	st, cfg, err := openStore(command)
	if err != nil {
		return err
	}
	defer st.Close()

	flags := command.Flags()
	opts := scan.Options{
		Recursive:      config.BoolOr(flags.Changed("recursive"), scanConfiguration.recursive, cfg.Recursive, false),
		Rescan:         config.BoolOr(flags.Changed("rescan"), scanConfiguration.rescan, cfg.Rescan, false),
		FollowSymlinks: config.BoolOr(flags.Changed("follow-symlinks"), scanConfiguration.followSymlinks, cfg.FollowSymlinks, false),
		Hidden:         config.BoolOr(flags.Changed("hidden"), scanConfiguration.hidden, cfg.Hidden, false),
		Include:        config.StringSliceOr(scanConfiguration.include, cfg.Include),
		Exclude:        config.StringSliceOr(scanConfiguration.exclude, cfg.Exclude),
	}

	logger := logging.Root.Sublogger("scan")
	printer := &cmd.StatusLinePrinter{}
	defer printer.Clear()

	if err := scan.Run(st, roots, opts, logger, printer); err != nil {
		return err
	}

	printer.Clear()
	fmt.Println("scan complete")
	return nil
}

var scanCommand = &cobra.Command{
	Use:   "scan [DIRS...]",
	Short: "Scan directory trees and update the duplicate index",
	Args:  cobra.ArbitraryArgs,
	Run:   cmd.Mainify(scanMain),
}

var scanConfiguration struct {
	recursive      bool
	rescan         bool
	followSymlinks bool
	hidden         bool
	include        []string
	exclude        []string
}

func init() {
	flags := scanCommand.Flags()
	flags.SortFlags = false
	flags.BoolVar(&scanConfiguration.recursive, "recursive", false, "Recurse into subdirectories")
	flags.BoolVar(&scanConfiguration.rescan, "rescan", false, "Re-read directories even if already scanned")
	flags.BoolVar(&scanConfiguration.followSymlinks, "follow-symlinks", false, "Follow symbolic links when enumerating")
	flags.BoolVar(&scanConfiguration.hidden, "hidden", false, "Include dot-prefixed (hidden) entries")
	flags.StringSliceVar(&scanConfiguration.include, "include", nil, "Only scan files matching this glob (repeatable)")
	flags.StringSliceVar(&scanConfiguration.exclude, "exclude", nil, "Exclude files matching this glob (repeatable)")
}
