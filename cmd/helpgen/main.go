// cmd/helpgen/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/helpgen/internal/config"

	// Register providers via init() side effects.
	_ "github.com/julianshen/helpgen/internal/provider/anthropic"
	_ "github.com/julianshen/helpgen/internal/provider/ollama"
	_ "github.com/julianshen/helpgen/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
)

func versionString() string {
	return fmt.Sprintf("helpgen %s (commit: %s, built: %s)", version, commit, date)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "helpgen",
		Short: "Generate end-user help documentation from web app source code",
		Long: `helpgen scans a web application's source tree for routes, components,
user-facing text and feature evidence, then generates and maintains
end-user help articles with an LLM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(gapsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
