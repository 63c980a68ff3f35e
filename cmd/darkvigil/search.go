package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/darkvigil/darkvigil/internal/config"
	"github.com/darkvigil/darkvigil/internal/crawler"
	"github.com/darkvigil/darkvigil/internal/database"
	"github.com/darkvigil/darkvigil/internal/engine"
	"github.com/darkvigil/darkvigil/internal/export"
	"github.com/darkvigil/darkvigil/internal/tor"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search hidden-service search engines for a keyword",
		Long: `Search queries every active hidden-service search engine for the given
term and collects the results per engine. One engine failing never aborts
the others.

Examples:
  # Search all active engines
  darkvigil search "hidden wiki"

  # Verify which results are still reachable
  darkvigil search --check-alive "hidden wiki"

  # Export results as Markdown to a directory
  darkvigil search --export markdown --output ./results "hidden wiki"

  # Use an external Tor proxy instead of the embedded daemon
  darkvigil search --external-tor 127.0.0.1:9050 "hidden wiki"

Configuration file (.darkvigil.yml) example:
  proxy: 127.0.0.1:9150
  workers: 10
  engines:
    Tordex:
      active: false`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	// Tor connection flags
	cmd.Flags().StringP("external-tor", "e", "",
		"Use external Tor proxy at specified address (e.g., 127.0.0.1:9050)")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Crawl behavior flags
	cmd.Flags().BoolP("check-alive", "a", false,
		"Probe each result and annotate it as alive or dead")
	cmd.Flags().DurationP("timeout", "t", config.DefaultSearchTimeout,
		"Timeout for each engine query")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Concurrency ceiling for liveness probes")

	// Export flags
	cmd.Flags().StringP("export", "x", "",
		"Export results in the given format (json, csv, markdown, txt)")
	cmd.Flags().StringP("output", "o", "",
		"Directory for exported files (default: desktop, falling back to home)")

	// Persistence flags
	cmd.Flags().Bool("db", false,
		"Save results to the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darkvigil.yml in current or XDG config directory)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildSearchConfig(cmd)
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

	return runSearch(ctx, cmd, cfg, args[0], logger)
}

// buildSearchConfig creates a Config from the search command's flags and
// the optional config file.
func buildSearchConfig(cmd *cobra.Command) (*config.Config, error) {
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
	cfg.SearchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}
	cfg.CheckAlive, err = cmd.Flags().GetBool("check-alive")
	if err != nil {
		return nil, err
	}
	cfg.ExportFormat, err = cmd.Flags().GetString("export")
	if err != nil {
		return nil, err
	}
	cfg.ExportDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB, err = cmd.Flags().GetBool("db")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile resolves and applies the optional YAML config file.
// An explicitly requested file that does not exist is an error; an absent
// default file is not.
func loadConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.File = &config.File{}
		return nil
	}

	file, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.File = file

	if file.Proxy != "" && !cfg.UseExternalTor {
		cfg.UseExternalTor = true
		cfg.ProxyAddress = file.Proxy
	}
	if file.Workers > 0 {
		cfg.Workers = file.Workers
	}

	return nil
}

// runSearch executes the crawl.
func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, term string, logger *slog.Logger) error {
	client, cleanup, err := setupTorClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	engines := engine.ApplyOverrides(engine.DefaultRegistry(), cfg.File.Engines)
	logWeakEngineHosts(engines, logger)

	opts := []crawler.Option{
		crawler.WithLogger(logger),
		crawler.WithTimeout(cfg.SearchTimeout),
		crawler.WithUserAgent(cfg.UserAgent),
	}

	if cfg.CheckAlive {
		checker := crawler.NewLivenessChecker(client.NewHTTPClient(cfg.ProbeTimeout),
			crawler.WithLivenessWorkers(cfg.Workers),
			crawler.WithLivenessTimeout(cfg.ProbeTimeout),
			crawler.WithLivenessUserAgent(cfg.UserAgent),
			crawler.WithLivenessLogger(logger),
		)
		opts = append(opts, crawler.WithLivenessChecker(checker))
	}

	if cfg.ExportFormat != "" {
		format, err := export.ParseFormat(cfg.ExportFormat)
		if err != nil {
			return err
		}
		dir := cfg.ExportDir
		if dir == "" {
			dir = config.DefaultExportDir()
		}
		exporter := export.NewExporter(dir, crawler.ProducerName, format)
		opts = append(opts, crawler.WithExport(exporter.Export))
	}

	c := crawler.New(client.NewHTTPClient(cfg.SearchTimeout), engines, opts...)

	fmt.Fprintf(cmd.OutOrStdout(), "Searching for %q...\n\n", term)
	results := c.Crawl(ctx, term, cfg.CheckAlive)

	w := export.NewTextWriter(cmd.OutOrStdout())
	if _, err := w.Write(results); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}

	if cfg.SaveToDB {
		db, err := database.Open(config.DataDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		written, err := db.SaveCrawlResult(ctx, term, results)
		if err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		logger.Info("results saved", "records", written, "path", db.Path())
	}

	return nil
}

// logWeakEngineHosts flags engine endpoints whose onion address fails v3
// checksum validation. Overridden mirrors with typos are caught here
// instead of as silent empty result sets.
func logWeakEngineHosts(engines []engine.Config, logger *slog.Logger) {
	for _, eng := range engines {
		host := tor.HostFromURL(eng.SearchURL)
		if tor.IsOnionHost(host) && !tor.IsValidV3Host(host) {
			logger.Warn("engine host fails onion v3 checksum", "engine", eng.Name, "host", host)
		} else {
			logger.Debug("engine host validated", "engine", eng.Name, "host", host)
		}
	}
}

// setupTorClient creates a Tor client from the configuration, starting the
// embedded daemon unless an external proxy was requested. The returned
// cleanup stops the daemon when one was started.
func setupTorClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*tor.Client, func(), error) {
	if cfg.UseExternalTor {
		client, err := tor.NewClient(cfg.ProxyAddress)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
		}
		if err := client.CheckConnection(ctx); err != nil {
			return nil, nil, fmt.Errorf("tor proxy check failed (make sure Tor is running at %s): %w",
				cfg.ProxyAddress, err)
		}
		logger.Info("Tor proxy connection verified", "address", cfg.ProxyAddress)
		return client, func() {}, nil
	}

	logger.Info("starting embedded Tor daemon...")
	embedded := tor.NewEmbedded(cfg.TorStartupTimeout)
	if err := embedded.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	client, err := embedded.NewClient()
	if err != nil {
		_ = embedded.Stop() //nolint:errcheck // best-effort cleanup
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	logger.Info("embedded Tor ready", "socks", embedded.SocksAddr())
	cleanup := func() {
		logger.Info("stopping embedded Tor daemon...")
		if err := embedded.Stop(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}
	return client, cleanup, nil
}
