package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "jobvec",
		Commands: []*cli.Command{
			{
				Name: "ingest",
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "search-term",
						Aliases:  []string{"s"},
						Required: true,
					},
				),
				Action: func(c *cli.Context) error { return nil },
			},
		},
	}

	t.Run("search-term is required", func(t *testing.T) {
		err := app.Run([]string{"jobvec", "ingest", "--db", "/tmp/test.db"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search-term")
	})

	t.Run("accepts full flag set", func(t *testing.T) {
		err := app.Run([]string{
			"jobvec", "ingest",
			"--db", "/tmp/test.db",
			"--index", "/tmp/test-index",
			"--search-term", "golang",
			"--mock-embedder",
		})
		assert.NoError(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", 0)
		set.String("log-level", level, "")
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			assert.NoError(t, setupLogger(newContext(level)), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("level is applied", func(t *testing.T) {
		require.NoError(t, setupLogger(newContext("error")))
		assert.False(t, slog.Default().Enabled(nil, slog.LevelInfo))
		// Restore a permissive default for other tests.
		require.NoError(t, setupLogger(newContext("info")))
	})
}
