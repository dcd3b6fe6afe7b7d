package cmd

import (
	"github.com/spf13/cobra"
)

// Mainify wraps a Cobra entry point that returns an error (so it can rely on
// defer-based cleanup, such as closing a store handle) and produces the
// standard Cobra Run signature, routing a returned error through Fatal.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
