package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/zgraph/internal"
	pkgconfig "github.com/starford/zgraph/pkg/config"
)

var version = "dev"

// newApp loads the configuration and builds the application for one command.
func newApp(cmd *cli.Command, inv invocation) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if inv.port > 0 {
		cfg.HTTP.Port = inv.port
	}

	return internal.New(
		internal.WithConfig(cfg),
		internal.WithQuiet(inv.quiet),
		internal.WithVersion(version),
	)
}

// action adapts an App method to a cli action taking the directory argument.
func action(run func(ctx context.Context, app *internal.App, inv invocation) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		inv, err := parseInvocation(cmd)
		if err != nil {
			return err
		}
		app, err := newApp(cmd, inv)
		if err != nil {
			return err
		}
		return run(ctx, app, inv)
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "zgraph",
		Usage:   "Analyse the reference graph of a Zettelkasten directory",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "zgraph.yaml",
				Value:       "zgraph.yaml",
				Sources:     cli.EnvVars("ZGRAPH_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Print note, reference, isolated note and component counts",
				ArgsUsage: "<directory>",
				Flags:     []cli.Flag{quietFlag()},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					return app.Stats(ctx, inv.dir)
				}),
			},
			{
				Name:      "unconnected",
				Usage:     "List notes without any reference",
				ArgsUsage: "<directory>",
				Flags:     []cli.Flag{quietFlag()},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					return app.Unconnected(ctx, inv.dir)
				}),
			},
			{
				Name:      "components",
				Usage:     "List connected components, largest first",
				ArgsUsage: "<directory>",
				Flags:     []cli.Flag{quietFlag()},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					return app.Components(ctx, inv.dir)
				}),
			},
			{
				Name:      "graph-pdf",
				Usage:     "Render the reference graph with Graphviz",
				ArgsUsage: "<directory>",
				Flags: []cli.Flag{
					quietFlag(),
					&cli.StringFlag{Name: flagPDFName, Usage: "Output file (default from config: zettel_graph.pdf)"},
				},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					_, err := app.GraphPDF(ctx, inv.dir, inv.values[flagPDFName])
					return err
				}),
			},
			{
				Name:      "export",
				Usage:     "Write the graph snapshot to SQLite or JSON",
				ArgsUsage: "<directory>",
				Flags: []cli.Flag{
					quietFlag(),
					&cli.StringFlag{Name: flagOut, Usage: "Output file"},
					&cli.StringFlag{Name: flagFormat, Usage: "sqlite or json", Value: internal.ExportSQLite},
				},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					if inv.values[flagOut] == "" {
						return fmt.Errorf("export: --%s is required", flagOut)
					}
					return app.Export(ctx, inv.dir, inv.values[flagOut], inv.values[flagFormat])
				}),
			},
			{
				Name:      "serve",
				Usage:     "Serve the graph over HTTP and rebuild it on change",
				ArgsUsage: "<directory>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagPort, Usage: "HTTP port (default from config: 8080)"},
				},
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					return app.Serve(ctx, inv.dir)
				}),
			},
			{
				Name:      "mcp",
				Usage:     "Expose graph tools over MCP stdio",
				ArgsUsage: "<directory>",
				Action: action(func(ctx context.Context, app *internal.App, inv invocation) error {
					return app.ServeMCP(ctx, inv.dir)
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
