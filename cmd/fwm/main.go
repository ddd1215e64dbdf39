package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fwm-go/internal/app"
	"fwm-go/internal/config"
	"fwm-go/internal/encryption"
	"fwm-go/internal/render"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readConfig reads the config file named by the defaults.
func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults.ConfigPath, nil
}

// newApp reads the config and creates an FWMApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "load", "report").
func newApp(cmd *cobra.Command, command string) (*app.FWMApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	opts := app.Options{
		Command: command,
		Verbose: verbose,
	}
	if verbose {
		opts.Console = os.Stderr
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Passphrase = func() (string, error) { return readPassphrase("Passphrase: ") }
	}

	a, err := app.NewFWMApp(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// loadedApp is newApp followed by the initial load. It fails when any source
// table cannot be loaded.
func loadedApp(cmd *cobra.Command, command string) (*app.FWMApp, error) {
	a, err := newApp(cmd, command)
	if err != nil {
		return nil, err
	}
	if _, err := a.Start(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printTable(t *render.Table) error {
	return t.Write(os.Stdout, render.IsTerminal(os.Stdout))
}

var rootCmd = &cobra.Command{
	Use:          "fwm",
	Short:        "Food wastage management dashboard",
	SilenceUsage:  true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := defaults.NewConfig()
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Source Dir: %s\n", cfg.Source.Dir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		switch cfg.Source.Type {
		case "s3":
			fmt.Printf("Source:    s3://%s/%s (encrypted: %t)\n", cfg.Source.S3Bucket, cfg.Source.S3Prefix, cfg.Source.Encrypted)
		default:
			fmt.Printf("Source:    %s %s (encrypted: %t)\n", cfg.Source.Type, cfg.Source.Dir, cfg.Source.Encrypted)
		}
		fmt.Printf("Server:    %s\n", cfg.Server.Addr())
		fmt.Printf("Expiry:    %d days\n", cfg.Reports.ExpiryWindowDays)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage source encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a passphrase-protected key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		keyring := encryption.NewKeyring(cfg.Encryption)
		if keyring.Exists() {
			return fmt.Errorf("keys already exist at %s", cfg.Encryption.PrivateKeyPath)
		}

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return fmt.Errorf("reading passphrase: %w", err)
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return fmt.Errorf("reading passphrase: %w", err)
		}
		if passphrase != confirm {
			return errors.New("passphrases do not match")
		}

		if err := keyring.Generate(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt FILE...",
	Short: "Encrypt source files to the public key",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		keyring := encryption.NewKeyring(cfg.Encryption)
		for _, path := range args {
			out, err := keyring.EncryptFile(path)
			if err != nil {
				return err
			}
			fmt.Printf("Encrypted %s -> %s\n", path, out)
		}
		return nil
	},
}

// load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the source tables and print row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "load")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Load(cmd.Context())
		if err != nil {
			return err
		}
		return printTable(render.LoadSummary(summary))
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report [NAME]",
	Short: "Run a report, or list the catalog without NAME",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		city, _ := cmd.Flags().GetString("city")
		days, _ := cmd.Flags().GetString("days")

		if len(args) == 0 {
			a, err := newApp(cmd, "report")
			if err != nil {
				return err
			}
			defer a.Close()
			return printTable(render.Catalog(a.Service().Reports()))
		}

		a, err := loadedApp(cmd, "report")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Report(cmd.Context(), args[0], city, days)
		if err != nil {
			return err
		}
		return printTable(render.Report(report))
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "serve")
		if err != nil {
			return err
		}
		defer a.Close()

		server, err := a.NewServer()
		if err != nil {
			return a.Fail(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return a.Fail(err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Fail(server.Shutdown(shutdownCtx))
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the store",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "db status")
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.DatabaseStatus()
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("Version: %d\n", status.Version)
		fmt.Printf("Latest:  %d\n", status.Latest)
		fmt.Printf("Dirty:   %t\n", status.Dirty)
		return nil
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "db schema")
		if err != nil {
			return err
		}
		defer a.Close()

		schema, err := a.DatabaseSchema()
		if err != nil {
			return a.Fail(err)
		}
		fmt.Print(schema)
		return nil
	},
}

// sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage remote source tables",
}

var sourcesPushCmd = &cobra.Command{
	Use:   "push DIR",
	Short: "Upload the CSV tables in DIR to the configured s3 source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		written, err := app.PushSources(cmd.Context(), cfg, args[0])
		for _, w := range written {
			fmt.Printf("Uploaded %s\n", w)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug records to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	keysCmd.AddCommand(keysInitCmd)

	reportCmd.Flags().String("city", "", "City for the provider contacts report")
	reportCmd.Flags().String("days", "", "Window for the nearing expiry report (default from config)")

	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbSchemaCmd)

	sourcesCmd.AddCommand(sourcesPushCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(listingsCmd)
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(sourcesCmd)
}
