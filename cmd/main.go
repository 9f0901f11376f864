package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"schedgen/internal/assembler"
	"schedgen/internal/calendar"
	"schedgen/internal/program"
	"schedgen/internal/sessionize"
)

const (
	defaultInput  = "data/program.yaml"
	defaultOutput = "themes/event/assets/test/sessionize-view-all.json"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		if errors.Is(err, program.ErrInputNotFound) {
			logger.Error("Input file not found", "error", err)
			return 1
		}
		logger.Error("Application failed", "error", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	defaults := assembler.DefaultOptions()
	return &cli.App{
		Name:      "schedgen",
		Usage:     "Convert a minimal YAML schedule into Sessionize view/all JSON.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Value: defaultInput, Usage: "Path to YAML input."},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: defaultOutput, Usage: "Path to write JSON output."},
			&cli.StringFlag{Name: "track-title", Value: defaults.TrackTitle, Usage: "Title for the track category."},
			&cli.StringFlag{Name: "type-title", Value: defaults.TypeTitle, Usage: "Title for the session type category."},
			&cli.StringFlag{Name: "ics", Usage: "Also write an iCalendar file of timed sessions to this path."},
			&cli.StringFlag{Name: "calendar-name", Usage: "Calendar name embedded in the iCalendar file."},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: debug, info, warn or error."},
		},
		Action: generateAction,
		Commands: []*cli.Command{
			schemaCommand(),
		},
	}
}

func generateAction(c *cli.Context) error {
	logger := setupLogger(c.App.ErrWriter, c.String("log-level"))

	input := c.String("input")
	p, err := program.Load(input)
	if err != nil {
		return err
	}
	logger.Debug("Loaded program.", "file", input, "sessions", len(p.Sessions), "speakers", len(p.Speakers))

	doc, err := assembler.Build(logger, p, assembler.Options{
		TrackTitle: c.String("track-title"),
		TypeTitle:  c.String("type-title"),
	})
	if err != nil {
		return fmt.Errorf("failed to assemble schedule: %w", err)
	}

	output := c.String("output")
	if err := sessionize.WriteFile(output, doc); err != nil {
		return err
	}
	logger.Info("Wrote schedule document.", "file", output, "sessions", len(doc.Sessions), "speakers", len(doc.Speakers))

	if icsPath := c.String("ics"); icsPath != "" {
		exporter := calendar.NewExporter(logger, c.String("calendar-name"))
		if err := exporter.WriteFile(icsPath, doc); err != nil {
			return err
		}
	}
	return nil
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON Schema of the generated document.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the schema to this path instead of stdout."},
		},
		Action: func(c *cli.Context) error {
			data, err := sessionize.MarshalSchema()
			if err != nil {
				return err
			}
			path := c.String("output")
			if path == "" {
				_, err := fmt.Fprintln(c.App.Writer, string(data))
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create schema directory: %w", err)
			}
			return os.WriteFile(path, data, 0o644)
		},
	}
}

func setupLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
