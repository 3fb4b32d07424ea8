package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry",
	Long:  "clear removes all entries from the database. Settings are kept.",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting all entries")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errors.New("refusing to delete all entries without --yes")
	}

	s, err := openStore(cliLog(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Clear(); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All entries deleted")
	return nil
}
