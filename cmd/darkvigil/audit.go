package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/database"
	"github.com/darkvigil/darkvigil/internal/model"
	"github.com/darkvigil/darkvigil/internal/scanner"
	"github.com/darkvigil/darkvigil/internal/tor"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <target>",
		Short: "Audit a web target for security misconfigurations",
		Long: `Audit fetches one page from the target and analyzes it in layers:
HTTP headers, TLS certificate, cookies, meta tags, forms, and inline
scripts. The findings fold into a risk score and a threat tier.

With --detail, three deep probes run additional requests against the
target: redirect-chain behavior, hidden-path enumeration (/.git, /.env,
/admin, /config, /backup.zip), and honeypot heuristics.

Examples:
  # Quick surface audit
  darkvigil audit exampleonion.onion

  # Full audit including deep probes
  darkvigil audit --detail exampleonion.onion

  # Machine-readable output
  darkvigil audit --json exampleonion.onion

  # Audit through an external Tor proxy
  darkvigil audit --external-tor 127.0.0.1:9050 exampleonion.onion`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditCmd,
	}

	// Tor connection flags
	cmd.Flags().StringP("external-tor", "e", "",
		"Use external Tor proxy at specified address (e.g., 127.0.0.1:9050)")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Audit behavior flags
	cmd.Flags().BoolP("detail", "d", false,
		"Run the deep probes (redirects, hidden paths, honeypot checks)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultScanTimeout,
		"Timeout for the page fetch and each probe")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the report as JSON")

	// Persistence flags
	cmd.Flags().Bool("db", false,
		"Save the report to the history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAuditConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runAudit(ctx, cmd, cfg, args[0], jsonOutput, logger)
}

// buildAuditConfig creates a Config from the audit command's flags.
func buildAuditConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	externalTor, err := cmd.Flags().GetString("external-tor")
	if err != nil {
		return nil, err
	}
	if externalTor != "" {
		cfg.UseExternalTor = true
		cfg.ProxyAddress = externalTor
	}

	cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout")
	if err != nil {
		return nil, err
	}
	cfg.ScanTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.Detail, err = cmd.Flags().GetBool("detail")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB, err = cmd.Flags().GetBool("db")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runAudit executes the scan.
func runAudit(ctx context.Context, cmd *cobra.Command, cfg *config.Config, target string, jsonOutput bool, logger *slog.Logger) error {
	client, cleanup, err := setupTorClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if host := tor.HostFromURL(target); tor.IsOnionHost(host) && !tor.IsValidV3Host(host) {
		logger.Warn("target fails onion v3 checksum, it may be mistyped", "host", host)
	}

	s := scanner.New(target, client.NewHTTPClient(cfg.ScanTimeout),
		scanner.WithDetail(cfg.Detail),
		scanner.WithNoRedirectClient(client.NewNoRedirectClient(cfg.ScanTimeout)),
		scanner.WithDialer(client.Dial),
		scanner.WithTimeout(cfg.ScanTimeout),
		scanner.WithUserAgent(cfg.UserAgent),
		scanner.WithLogger(logger),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Auditing %s...\n\n", s.Target())
	report := s.Analyze(ctx)

	if jsonOutput {
		if err := writeReportJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		writeReportText(cmd.OutOrStdout(), report)
	}

	if cfg.SaveToDB {
		db, err := database.Open(config.DataDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.SaveScanReport(ctx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("report saved", "path", db.Path())
	}

	return nil
}

// writeReportJSON prints the report as indented JSON.
func writeReportJSON(w io.Writer, report *model.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeReportText prints a human-readable report summary.
func writeReportText(w io.Writer, report *model.ScanReport) {
	fmt.Fprintf(w, "Target:       %s\n", report.URL)
	fmt.Fprintf(w, "Scanned:      %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST"))

	if report.Error != "" {
		fmt.Fprintf(w, "Error:        %s\n", report.Error)
		return
	}

	fmt.Fprintf(w, "Risk score:   %d/100\n", report.RiskScore)
	fmt.Fprintf(w, "Threat level: %s\n", report.ThreatLevel)
	if report.SSLIssuer != "" {
		fmt.Fprintf(w, "TLS issuer:   %s\n", report.SSLIssuer)
		fmt.Fprintf(w, "TLS expiry:   %s\n", report.SSLExpiry)
	}
	fmt.Fprintln(w)

	categories := make([]string, 0, len(report.Findings))
	for cat := range report.Findings {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	for _, cat := range categories {
		findings := report.Findings[model.Category(cat)]
		fmt.Fprintf(w, "[%s] %d finding(s)\n", cat, len(findings))
		for _, finding := range findings {
			fmt.Fprintf(w, "  - %s\n", finding)
		}
	}

	for cat, status := range report.PassStatus {
		if status == model.PassFailed {
			fmt.Fprintf(w, "\nNote: the %s probe failed and contributed no findings\n", cat)
		}
	}
}
