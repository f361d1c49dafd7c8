package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/neox5/gleanbox/internal/app"
	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/internal/monitor"
	"github.com/neox5/gleanbox/internal/version"
	"github.com/neox5/gleanbox/loader"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "gleanbox",
		Usage:   "Load Glean metric schemas into a typed metrics tree",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:      "tree",
				Usage:     "print the metrics tree built from schema files",
				ArgsUsage: "<schema.yaml>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pings",
						Usage: "print only the pings sub-tree",
					},
					&cli.StringMapFlag{
						Name:  "option",
						Usage: "parser option key=value (repeatable)",
					},
				},
				Action: tree,
			},
			{
				Name:  "serve",
				Usage: "record into the metrics tree and export recorded values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "config.yaml",
						Usage:   "path to configuration file",
					},
				},
				Action: serve,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := slog.LevelInfo
	if cmd.Bool("debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
	return ctx, nil
}

func tree(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one schema file is required")
	}

	options := make(map[string]any)
	for k, v := range cmd.StringMap("option") {
		options[k] = parseOption(v)
	}

	load := loader.LoadMetrics
	if cmd.Bool("pings") {
		load = loader.LoadPings
	}
	root, err := load(paths, loader.WithConfig(options))
	if err != nil {
		return err
	}

	return root.Walk(func(path string, obj loader.Object) error {
		_, err := fmt.Fprintf(cmd.Root().Writer, "%s\t%s\t%s\n", path, describe(obj), firstLine(obj.Doc()))
		return err
	})
}

// describe renders the variant of obj for the tree listing.
func describe(obj loader.Object) string {
	switch obj.Kind() {
	case loader.ObjectMetric:
		m, _ := obj.Metric()
		return string(m.Kind())
	case loader.ObjectUnsupported:
		kind, _ := obj.UnsupportedKind()
		return "unsupported(" + kind + ")"
	case loader.ObjectExtras:
		t, _ := obj.Extras()
		return "extras " + t.Name()
	case loader.ObjectReasonCodes:
		r, _ := obj.ReasonCodes()
		names := make([]string, 0, r.Len())
		for _, c := range r.Codes() {
			names = append(names, fmt.Sprintf("%s=%d", c.Name, c.Value))
		}
		return "reason_codes " + r.Name() + " [" + strings.Join(names, " ") + "]"
	case loader.ObjectRecord:
		t, _ := obj.Record()
		return t.Kind().String() + " " + t.Name()
	default:
		return obj.Kind().String()
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// parseOption maps "true"/"false" to booleans; other values stay strings.
func parseOption(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	slog.Info("starting gleanbox", "version", version.String(), "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(shutdownCtx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if cfg.Settings.Monitor.Enabled {
		mon, err := monitor.New(cfg.Settings.Monitor.Interval, slog.Default(), application.Stats)
		if err != nil {
			slog.Warn("resource monitor disabled", "error", err)
		} else {
			mon.Run(shutdownCtx)
			defer mon.Wait()
		}
	}

	if application.Generator != nil {
		application.Generator.Run(shutdownCtx)
		defer application.Generator.Stop()
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	if application.PrometheusExporter != nil {
		wg.Go(func() {
			if err := application.PrometheusExporter.Start(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("prometheus exporter: %w", err)
			}
		})
	}

	if application.OTELExporter != nil {
		wg.Go(func() {
			if err := application.OTELExporter.Start(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("otel exporter: %w", err)
			}
		})
		defer func() {
			if err := application.OTELExporter.Stop(); err != nil {
				slog.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	select {
	case err := <-errChan:
		slog.Error("exporter error", "error", err)
		stop()
	case <-shutdownCtx.Done():
	}

	wg.Wait()

	slog.Info("shutdown complete")
	return nil
}
