// Command novelsearch-cli runs searches and cached lookups against the novel
// platform from a terminal.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/novelsearch/internal/version"
)

func main() {
	app := &cli.Command{
		Name:  "novelsearch-cli",
		Usage:   "Search the novel platform from the terminal",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "platform",
				Usage:    "Platform API base URL",
				Sources:  cli.EnvVars("NOVELSEARCH_PLATFORM"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "cookie",
				Usage:   "Cookie forwarded to follow calls",
				Sources: cli.EnvVars("NOVELSEARCH_COOKIE"),
			},
			&cli.StringFlag{
				Name:    "redis",
				Usage:   "Redis address for cached lookups (in-memory when empty)",
				Sources: cli.EnvVars("NOVELSEARCH_REDIS"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log SDK operations to stderr",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			statsCommand(),
			activityCommand(),
			contestsCommand(),
			followCommand(),
			healthCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
