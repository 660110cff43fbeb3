// cmd/helpgen/gaps.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/helpgen/internal/config"
	"github.com/julianshen/helpgen/internal/store"
)

func gapsCmd() *cobra.Command {
	var rootFlag string

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Track user questions the documentation does not answer",
	}
	cmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "project root")

	openStore := func() (*store.Store, error) {
		proj, err := config.LoadProject(rootFlag)
		if err != nil {
			return nil, err
		}
		dbPath := filepath.Join(rootFlag, proj.Output.DatabaseFile)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return store.NewStore(dbPath)
	}

	addCmd := &cobra.Command{
		Use:   "add <question>",
		Short: "Record an unanswered user question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			gap, err := s.RecordGap(strings.Join(args, " "), time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Recorded gap %s (asked %d time(s))\n", gap.ID, gap.Frequency)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded gaps by frequency",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			gaps, err := s.ListGaps()
			if err != nil {
				return err
			}
			if len(gaps) == 0 {
				fmt.Println("No gaps recorded.")
				return nil
			}
			for _, g := range gaps {
				fmt.Printf("%s  x%d  %s\n", g.ID, g.Frequency, g.Question)
			}
			return nil
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Remove a gap once documentation covers it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ResolveGap(args[0]); err != nil {
				return err
			}
			fmt.Println("Resolved.")
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, resolveCmd)
	return cmd
}
