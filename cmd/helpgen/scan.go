// cmd/helpgen/scan.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/helpgen/internal/config"
	"github.com/julianshen/helpgen/internal/scan"
	"github.com/julianshen/helpgen/internal/store"
)

func scanCmd() *cobra.Command {
	var (
		frameworkFlag   string
		concurrencyFlag int
		historyFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a web app source tree and write the code map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			proj, err := config.LoadProject(root)
			if err != nil {
				return err
			}

			if historyFlag {
				return printScanHistory(root, proj)
			}

			cm, err := runScan(cmd, root, proj, frameworkFlag, concurrencyFlag)
			if err != nil {
				return err
			}

			codeMapPath := filepath.Join(root, proj.Output.CodeMapFile)
			if err := scan.WriteCodeMap(codeMapPath, cm); err != nil {
				return fmt.Errorf("writing code map: %w", err)
			}

			recordScanHistory(root, proj, cm)

			fmt.Fprintf(os.Stderr, "Scanned %d files (%d skipped): %d routes, %d components, %d features [%s]\n",
				cm.Metadata.FileCount, len(cm.Metadata.SkippedFiles),
				len(cm.Routes), len(cm.Components), len(cm.Features), cm.Metadata.Framework)
			fmt.Fprintf(os.Stderr, "Code map written to %s\n", codeMapPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&frameworkFlag, "framework", "", "framework override: nextjs, react, express")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "parallel file workers")
	cmd.Flags().BoolVar(&historyFlag, "history", false, "print recent scan runs instead of scanning")

	return cmd
}

func printScanHistory(root string, proj *config.Project) error {
	s, err := store.NewStore(filepath.Join(root, proj.Output.DatabaseFile))
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer s.Close()

	recs, err := s.RecentScans(20)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No scans recorded.")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("%s  %-8s  %d files  %d features\n",
			r.RanAt.Local().Format("2006-01-02 15:04"), r.Framework, r.FileCount, r.Features)
	}
	return nil
}

// runScan builds the scan configuration from project settings plus flag
// overrides and runs the scanner.
func runScan(cmd *cobra.Command, root string, proj *config.Project, framework string, concurrency int) (*scan.CodeMap, error) {
	catalog, err := proj.Catalog()
	if err != nil {
		return nil, fmt.Errorf("building topic catalog: %w", err)
	}

	scanCfg := scan.DefaultConfig()
	scanCfg.Include = proj.Include
	scanCfg.Exclude = proj.Exclude
	scanCfg.Framework = proj.Framework
	scanCfg.Catalog = catalog
	if framework != "" {
		scanCfg.Framework = framework
	}
	if concurrency > 0 {
		scanCfg.Concurrency = concurrency
	}

	return scan.Run(cmd.Context(), root, scanCfg)
}

// recordScanHistory appends the run to the local history database.
// History is best effort; a failure never fails the scan.
func recordScanHistory(root string, proj *config.Project, cm *scan.CodeMap) {
	dbPath := filepath.Join(root, proj.Output.DatabaseFile)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot record scan history: %v\n", err)
		return
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot record scan history: %v\n", err)
		return
	}
	defer s.Close()

	err = s.RecordScan(store.ScanRecord{
		Framework: cm.Metadata.Framework,
		FileCount: cm.Metadata.FileCount,
		Features:  len(cm.Features),
		RanAt:     time.Now(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot record scan history: %v\n", err)
	}
}
