// Command jiofsck is a thin CLI over the fsck package: check replays a
// data file's surviving journal records and reports what it found, and
// cleanup wipes the journal once recovery is no longer needed.
package main

import (
	"fmt"
	"os"

	"github.com/Patrickaos/libjio/fsck"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	libjio "github.com/Patrickaos/libjio"
)

func main() {
	logger := logrus.New()

	root := &cobra.Command{
		Use:   "jiofsck",
		Short: "Recover or clean up a libjio-journaled data file",
	}

	checkCmd := &cobra.Command{
		Use:   "check PATH",
		Short: "Replay surviving journal records for PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := fsck.Check(args[0], libjio.WithLogger(logger))
			if err != nil {
				return err
			}
			fmt.Printf("examined %d, reapplied %d, corrupt %d, broken %d, in-progress %d, apply errors %d\n",
				res.Total, res.Reapplied, res.Corrupt, res.Broken, res.InProgress, res.ApplyError)
			return nil
		},
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup PATH",
		Short: "Remove PATH's journal directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fsck.Cleanup(args[0])
		},
	}

	root.AddCommand(checkCmd, cleanupCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
