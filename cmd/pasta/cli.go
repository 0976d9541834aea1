package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crmitchelmore/pasta/internal/config"
	"github.com/crmitchelmore/pasta/internal/errors"
	"github.com/crmitchelmore/pasta/internal/metadata"
	"github.com/crmitchelmore/pasta/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "pasta",
		Usage:   "Clipboard capture and classification",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(db, cfg),
			classifyCmd(cfg),
			listCmd(db),
			fetchCmd(db),
			searchCmd(db, cfg),
			deleteCmd(db),
			purgeCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Classify and store clipboard content (reads from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source-app", Aliases: []string{"s"}, Usage: "Source application identifier"},
			&cli.BoolFlag{Name: "image", Usage: "Record an image capture (no content)"},
			&cli.BoolFlag{Name: "screenshot", Usage: "Record a screenshot capture (no content)"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("image") || c.Bool("screenshot") {
				output, err := ops.CaptureBinary(db, cfg, c.String("source-app"), c.Bool("screenshot"), time.Time{})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Capture(db, cfg, ops.CaptureInput{
				Content:   content,
				SourceApp: c.String("source-app"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// classifyCmd creates the classify command.
func classifyCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify content without storing it (reads from stdin)",
		Action: func(c *cli.Context) error {
			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Classify(cfg, ops.ClassifyInput{Content: content})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List captured entries, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by content type"},
			&cli.BoolFlag{Name: "include-children", Usage: "Include extracted child entries"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Page size (default 20, max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Type:            c.String("type"),
				IncludeChildren: c.Bool("include-children"),
				Limit:           c.Int("limit"),
				Offset:          c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch one entry by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-children", Usage: "Include extracted child entries"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{
				ID:              c.Args().First(),
				IncludeChildren: c.Bool("include-children"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over captured content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "family", Aliases: []string{"f"}, Usage: "Keep only entries whose metadata contains this family"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Page size (default 20, max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			codec := metadata.NewCodec(cfg.CodecCacheSize)
			output, err := ops.Search(db, codec, ops.SearchInput{
				Query:  strings.Join(c.Args().Slice(), " "),
				Family: c.String("family"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one entry by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if err := ops.Delete(db, id); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"deleted": true, "id": id})
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete entries older than a cutoff",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Age cutoff, e.g. 30d", Required: true},
		},
		Action: func(c *cli.Context) error {
			days, err := parseDuration(c.String("older-than"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.Purge(db, ops.PurgeInput{OlderThanDays: days})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// contentArg resolves the content for capture/classify: a positional
// argument wins, otherwise stdin must be piped.
func contentArg(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("content must be passed as an argument or piped via stdin")
	}
	content, err := readStdin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if content == "" {
		return "", errors.NewInvalidRequest("content is required")
	}
	return content, nil
}

// outputJSON prints indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PastaError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// parseDuration parses "30d" format to days.
func parseDuration(s string) (int, error) {
	numStr, ok := strings.CutSuffix(s, "d")
	if !ok {
		numStr = s
	}
	days, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	if days <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return days, nil
}
