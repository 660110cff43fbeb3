// cmd/helpgen/generate.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/julianshen/helpgen/internal/config"
	"github.com/julianshen/helpgen/internal/generate"
	"github.com/julianshen/helpgen/internal/knowledge"
	"github.com/julianshen/helpgen/internal/output"
	"github.com/julianshen/helpgen/internal/provider"
	"github.com/julianshen/helpgen/internal/scan"
)

func generateCmd() *cobra.Command {
	var (
		changedOnlyFlag bool
		fullFlag        bool
		dryRunFlag      bool
		concurrencyFlag int
		timeoutFlag     time.Duration
		formatFlag      string
	)

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate help articles for detected features",
		Long: `Scan the source tree (or reuse the cached code map), reconcile detected
features against the knowledge base, and generate one help article per
topic that needs it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			proj, err := config.LoadProject(root)
			if err != nil {
				return err
			}

			cm, err := loadCodeMap(cmd, root, proj, fullFlag)
			if err != nil {
				return err
			}

			kbPath := filepath.Join(root, proj.Output.KnowledgeFile)
			base, err := knowledge.Load(kbPath)
			if err != nil {
				return err
			}

			catalog, err := proj.Catalog()
			if err != nil {
				return fmt.Errorf("building topic catalog: %w", err)
			}
			decisions := knowledge.Plan(cm, base, catalog, knowledge.PlannerConfig{
				Categories:  proj.Categories,
				ChangedOnly: changedOnlyFlag,
			})

			var llm provider.LLMProvider
			if !dryRunFlag {
				llm, err = provider.NewProvider(cfg)
				if err != nil {
					return fmt.Errorf("creating provider: %w", err)
				}
			}

			concurrency := cfg.Generate.Concurrency
			if concurrencyFlag > 0 {
				concurrency = concurrencyFlag
			}
			timeout := time.Duration(cfg.Generate.TimeoutSeconds) * time.Second
			if timeoutFlag > 0 {
				timeout = timeoutFlag
			}

			runner := &generate.Runner{
				LLM:         llm,
				Model:       cfg.Provider.Model,
				MaxTokens:   cfg.Generate.MaxTokens,
				Concurrency: concurrency,
				Timeout:     timeout,
				CodeVersion: cm.Metadata.ScannedAt.UTC().Format(time.RFC3339),
				DryRun:      dryRunFlag,
			}
			if rpm := cfg.Generate.RequestsPerMinute; rpm > 0 {
				runner.Limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
			}

			start := time.Now()
			summary := runner.Run(cmd.Context(), decisions, base)

			if !dryRunFlag {
				if err := knowledge.Save(kbPath, base); err != nil {
					return err
				}
				docsDir := filepath.Join(root, proj.Output.DocsDir)
				if err := knowledge.WriteMarkdown(docsDir, base); err != nil {
					return err
				}
			}

			return printReport(cm, summary, formatFlag, dryRunFlag, time.Since(start))
		},
	}

	cmd.Flags().BoolVar(&changedOnlyFlag, "changed-only", false, "skip topics whose evidence files are unchanged")
	cmd.Flags().BoolVar(&fullFlag, "full", false, "rescan even when a cached code map exists")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "plan only, no LLM calls or writes")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "max parallel LLM calls")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-topic LLM timeout")
	cmd.Flags().StringVar(&formatFlag, "output", "markdown", "report format: json, markdown")

	return cmd
}

// loadCodeMap reuses the cached code map when present, rescanning when the
// cache is missing or --full was given.
func loadCodeMap(cmd *cobra.Command, root string, proj *config.Project, full bool) (*scan.CodeMap, error) {
	codeMapPath := filepath.Join(root, proj.Output.CodeMapFile)
	if !full {
		cm, err := scan.ReadCodeMap(codeMapPath)
		if err != nil {
			return nil, fmt.Errorf("reading code map: %w", err)
		}
		if cm != nil {
			return cm, nil
		}
	}

	cm, err := runScan(cmd, root, proj, "", 0)
	if err != nil {
		return nil, err
	}
	if err := scan.WriteCodeMap(codeMapPath, cm); err != nil {
		return nil, fmt.Errorf("writing code map: %w", err)
	}
	return cm, nil
}

func printReport(cm *scan.CodeMap, summary generate.Summary, format string, dryRun bool, elapsed time.Duration) error {
	report := &output.RunReport{
		Framework:    cm.Metadata.Framework,
		FileCount:    cm.Metadata.FileCount,
		SkippedFiles: cm.Metadata.SkippedFiles,
		DurationMs:   elapsed.Milliseconds(),
		Features:     len(cm.Features),
		Created:      summary.Created,
		Updated:      summary.Updated,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
		InputTokens:  summary.Usage.InputTokens,
		OutputTokens: summary.Usage.OutputTokens,
		DryRun:       dryRun,
	}
	for _, f := range summary.Failures {
		report.Failures = append(report.Failures, output.FailureLog{Topic: f.Topic, Error: f.Err.Error()})
	}

	formatted, err := output.NewFormatter(format).Format(report)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(formatted))
	return nil
}
