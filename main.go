package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openclaw/urlqr/api"
	"github.com/openclaw/urlqr/config"
	"github.com/openclaw/urlqr/menu"
	"github.com/openclaw/urlqr/qrgen"
	"github.com/openclaw/urlqr/store"
	"github.com/openclaw/urlqr/viewer"
)

var version = "v0.1.0"

// errReported marks failures whose details were already printed.
var errReported = errors.New("failed")

var (
	configPath string
	noColor    bool
	preview    bool
)

func main() {
	root := &cobra.Command{
		Use:   "urlqr",
		Short: "Turn URLs into QR code PNG files",
		Long:  "Interactive QR code generator. Without a subcommand it shows a menu that reads URLs and writes PNG files to the output directory.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "urlqr.yaml", "Path to config file")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&preview, "preview", false, "Draw generated codes in the terminal")

	// --- generate command ----------------------------------------------------
	var name string
	var open bool
	generateCmd := &cobra.Command{
		Use:   "generate [url]",
		Short: "Generate a single QR code and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], name, open)
		},
	}
	generateCmd.Flags().StringVarP(&name, "name", "n", "", "Output file name (.png is appended if missing)")
	generateCmd.Flags().BoolVar(&open, "open", false, "Open the image in the default viewer")
	root.AddCommand(generateCmd)

	// --- history command -----------------------------------------------------
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generation attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of entries to show")
	root.AddCommand(historyCmd)

	// --- serve command -------------------------------------------------------
	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve QR code generation over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	root.AddCommand(serveCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("urlqr %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	gen     *qrgen.Generator
	history *store.HistoryStore
}

// setup loads config and wires the generator and history store. A history
// store that cannot be opened is logged and left out.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("preview") {
		cfg.Preview = preview
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	enc, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	gen, err := qrgen.New(enc, log)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	a := &app{cfg: cfg, log: log, gen: gen}

	if err := cfg.EnsureDataDir(); err != nil {
		log.Warn("history disabled", "error", err)
		return a, nil
	}
	history, err := store.NewHistoryStore(cfg.HistoryPath())
	if err != nil {
		log.Warn("history disabled", "error", err)
		return a, nil
	}
	a.history = history
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}

// runMenu is the interactive entrypoint.
func runMenu(cmd *cobra.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := menu.NewTerminalReader(ctx)
	if err != nil {
		return err
	}
	defer in.Close()

	opts := []menu.Option{
		menu.WithViewer(viewer.New(a.cfg.ViewerTimeout.Duration)),
		menu.WithPreview(a.cfg.Preview),
		menu.WithLogger(a.log),
	}
	if a.history != nil {
		opts = append(opts, menu.WithHistory(a.history))
	}

	return menu.New(in, os.Stdout, a.gen, opts...).Run(ctx)
}

// runGenerate performs one generation and prints the same report as the menu.
func runGenerate(cmd *cobra.Command, rawURL, name string, open bool) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := menu.NewPrinter(os.Stdout)

	res := a.gen.Generate(rawURL, name)
	if a.history != nil {
		if err := a.history.Record(ctx, store.NewEntry(rawURL, res, store.SourceCLI)); err != nil {
			a.log.Warn("record history", "error", err)
		}
	}

	out.Report(rawURL, res)
	if !res.OK {
		return errReported
	}
	if a.cfg.Preview {
		out.Preview(res.Payload)
	}
	if open {
		if err := viewer.New(a.cfg.ViewerTimeout.Duration).Open(ctx, res.Path); err != nil {
			out.DisplayFailed(err)
		} else {
			out.Displayed()
		}
	}
	return nil
}

// runHistory prints recent attempts, newest first.
func runHistory(cmd *cobra.Command, limit int) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.history == nil {
		return fmt.Errorf("history store unavailable at %s", a.cfg.HistoryPath())
	}
	if limit < 1 {
		return fmt.Errorf("limit must be positive")
	}

	entries, err := a.history.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No QR codes generated yet.")
		return nil
	}

	ok := color.New(color.FgGreen)
	failed := color.New(color.FgRed)
	for _, e := range entries {
		ts := time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04:05")
		status := ok.Sprint("SUCCESS")
		detail := e.Path
		if !e.Success {
			status = failed.Sprint("FAILED ")
			detail = e.Message
		}
		fmt.Printf("%s  %s  %-4s  %s  %s\n", ts, status, e.Source, e.InputURL, detail)
	}
	return nil
}

// runServe starts the HTTP API and blocks until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, port int) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Port
	}
	log := a.log

	server := &api.Server{
		Generator: a.gen,
		Log:       log,
		Version:   version,
		Started:   time.Now(),
	}
	if a.history != nil {
		server.History = a.history
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.NewRouter(server),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	fmt.Printf("Serving QR codes on http://localhost:%d (output: %s)\n", port, a.cfg.OutputDir)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "output_dir", a.cfg.OutputDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}
