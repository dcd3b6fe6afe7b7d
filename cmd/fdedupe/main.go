// Command fdedupe is a content-addressed duplicate-file finder and
// remover. It scans directory trees, computes content fingerprints,
// persists file and directory metadata in an embedded SQLite store,
// identifies groups of byte-identical files, and helps an operator choose
// which copies to delete.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyorgys/fdedupe/pkg/fdedupe"
)

func rootMain(command *cobra.Command, arguments []string) {
	if rootConfiguration.version {
		fmt.Println(fdedupe.Version)
		return
	}
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "fdedupe",
	Short: "Find and remove duplicate files using a persisted content-hash index",
	Run:   rootMain,
}

var rootConfiguration struct {
	db      string
	version bool
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.db, "db", "", "Path to the store database (default: "+fdedupe.DefaultStoreFile+")")

	localFlags := rootCommand.Flags()
	localFlags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		scanCommand,
		listCommand,
		removeCommand,
	)
}

func main() {
	// Exit codes follow spec.md §6: zero on success, nonzero for a fatal
	// error (store open failure, unresolvable traversal root, or a bad
	// invocation). Per-file errors are logged and never affect this.
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
