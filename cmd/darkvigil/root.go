package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkvigil/darkvigil/internal/log"
)

// NewRootCmd creates the root command for darkvigil.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darkvigil",
		Short: "Dark-web search harvesting and target auditing",
		Long: `DarkVigil is a dark-web reconnaissance toolkit.

It harvests search results from multiple hidden-service search engines,
optionally verifying which results are still reachable, and audits single
web targets for security misconfigurations: leaky headers, certificate
issues, insecure cookies, injection-prone scripts, exposed paths, and
honeypot traps.

By default, DarkVigil starts an embedded Tor daemon automatically.
Use --external-tor to use an existing Tor proxy instead.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitizing structured logger for a command run.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}
