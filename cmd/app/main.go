package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// newApp loads configuration (defaults when no config file exists) and
// wires the application. The global --file flag overrides the store path.
func newApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if file := cmd.String("file"); file != "" {
		cfg.Store.Path = file
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return internal.NewApp(internal.WithConfig(cfg))
}

func idArg(cmd *cli.Command) (uint64, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("missing note id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return id, nil
}

func sortFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "sort",
		Usage: "Sort order: id, date, update, or content",
		Value: "id",
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Minimal personal note manager with tagged, searchable notes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
				Local:       false,
			},
			&cli.StringFlag{
				Name:       "file",
				Usage:      "Path to the notes store file (overrides config)",
				Sources:    cli.EnvVars("ANSUZ_FILE"),
				Local:      false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a new note",
				ArgsUsage: "<content>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag to attach (repeatable)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("missing note content")
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Add(cmd.Args().First(), cmd.StringSlice("tag"))
				},
			},
			{
				Name:  "list",
				Usage: "List all notes",
				Flags: []cli.Flag{sortFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.List(cmd.String("sort"))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a note by id",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Remove(id)
				},
			},
			{
				Name:      "add-tag",
				Usage:     "Add tags to an existing note",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag to add (repeatable)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.AddTag(id, cmd.StringSlice("tag"))
				},
			},
			{
				Name:      "edit",
				Usage:     "Replace the content of a note",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Usage: "New note content"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Edit(id, cmd.String("content"))
				},
			},
			{
				Name:      "search",
				Usage:     "Search notes by keyword in their content",
				ArgsUsage: "<keyword>",
				Flags:     []cli.Flag{sortFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Search(cmd.Args().First(), cmd.String("sort"))
				},
			},
			{
				Name:  "watch",
				Usage: "Live view: re-render the list whenever the store changes",
				Flags: []cli.Flag{sortFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Watch(ctx, cmd.String("sort"))
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve note tools over stdio for MCP clients",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.MCP()
				},
			},
			{
				Name:   "clear",
				Usage:  "Reset the store to an empty collection",
				Hidden: true,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer app.Close()
					return app.Clear()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
