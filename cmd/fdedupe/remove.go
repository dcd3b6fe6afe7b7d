package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gyorgys/fdedupe/cmd"
	"github.com/gyorgys/fdedupe/pkg/logging"
	"github.com/gyorgys/fdedupe/pkg/prompting"
	"github.com/gyorgys/fdedupe/pkg/remove"
)

func removeMain(command *cobra.Command, arguments []string) error {
	st, _, err := openStore(command)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := logging.Root.Sublogger("remove")
	remover, err := remove.New(st, logger)
	if err != nil {
		return err
	}

	groups, err := remover.Groups()
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("no duplicate groups found")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	for i, group := range groups {
		fmt.Printf("\nGroup %d/%d (%s)\n", i+1, len(groups), humanize.Bytes(uint64(group.Files[0].Size)))
		gs := remover.NewGroupState(group.Files)

		quit, err := reviewGroup(reader, remover, gs)
		if err != nil {
			return err
		}
		if quit {
			// Operator-cancel: abort the rest of the run cleanly.
			// Groups already committed remain committed.
			fmt.Println("stopping")
			return nil
		}

		if !gs.Decided() {
			color.Yellow("skipping undecided group")
			continue
		}
		if err := remover.Commit(gs, removeConfiguration.dryRun); err != nil {
			return err
		}
	}

	return nil
}

// reviewGroup drives the interactive per-group loop: print the group,
// take operator input, and loop until the group is either decided (commit
// path returns to caller) or the operator quits.
func reviewGroup(reader *bufio.Reader, remover *remove.Remover, gs *remove.GroupState) (quit bool, err error) {
	for {
		printGroup(gs)

		if gs.Decided() {
			response, err := prompting.Prompt(reader, "commit this group? [Y/n/r(ule)/q] ")
			if err != nil {
				return false, err
			}
			switch response {
			case "q":
				return true, nil
			case "r":
				if err := addRuleInteractive(reader, remover, gs); err != nil {
					return false, err
				}
				continue
			case "n":
				// Leave the group undecided so the caller skips it.
				for i := range gs.Actions {
					gs.Actions[i] = remove.Undecided
				}
				return false, nil
			default:
				return false, nil
			}
		}

		response, err := prompting.Prompt(reader, "keep which file? (number), r(ule), q(uit): ")
		if err != nil {
			return false, err
		}

		switch response {
		case "q":
			return true, nil
		case "r":
			if err := addRuleInteractive(reader, remover, gs); err != nil {
				return false, err
			}
		default:
			if index, err := strconv.Atoi(response); err == nil && index >= 1 && index <= len(gs.Files) {
				gs.MarkKeep(index - 1)
			}
		}

		if gs.Decided() {
			return false, nil
		}
	}
}

func addRuleInteractive(reader *bufio.Reader, remover *remove.Remover, gs *remove.GroupState) error {
	pattern, err := prompting.Prompt(reader, "pattern: ")
	if err != nil {
		return err
	}
	priorityText, err := prompting.Prompt(reader, "priority: ")
	if err != nil {
		return err
	}
	priority, err := strconv.Atoi(priorityText)
	if err != nil {
		color.Red("priority must be an integer")
		return nil
	}
	return remover.AddRule(gs, pattern, priority)
}

func printGroup(gs *remove.GroupState) {
	for i, file := range gs.Files {
		label := "undecided"
		switch gs.Actions[i] {
		case remove.Keep:
			label = color.GreenString("keep")
		case remove.Delete:
			label = color.RedString("delete")
		}
		fmt.Printf("  [%d] %s (%s)\n", i+1, file.CanonicalPath, label)
	}
}

var removeCommand = &cobra.Command{
	Use:   "remove",
	Short: "Review duplicate groups and delete the extra copies",
	Args:  cobra.NoArgs,
	Run:   cmd.Mainify(removeMain),
}

var removeConfiguration struct {
	dryRun bool
}

func init() {
	flags := removeCommand.Flags()
	flags.SortFlags = false
	flags.BoolVar(&removeConfiguration.dryRun, "dry-run", false, "Report the groups' resolution without deleting anything")
}
