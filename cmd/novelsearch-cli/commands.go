package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	novelsearch "github.com/kailas-cloud/novelsearch/pkg/sdk"
)

// newClient builds an SDK client from the root flags.
func newClient(ctx context.Context, c *cli.Command) (*novelsearch.Client, error) {
	opts := []novelsearch.Option{
		novelsearch.WithPlatform(c.String("platform")),
	}
	if cookie := c.String("cookie"); cookie != "" {
		opts = append(opts, novelsearch.WithCredentials(cookie, ""))
	}
	if addr := c.String("redis"); addr != "" {
		opts = append(opts, novelsearch.WithRedis(addr, os.Getenv("NOVELSEARCH_REDIS_PASSWORD")))
	}
	if c.Bool("debug") {
		opts = append(opts, novelsearch.WithLogger(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)))
	}
	return novelsearch.New(ctx, opts...)
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a search and print one page of results",
		ArgsUsage: "[query string, e.g. \"mustInclude=竜&type=series\"]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to print",
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "Page size",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort option (newest, oldest, updated, views, likes, bookmarks)",
			},
			&cli.StringFlag{
				Name:  "age",
				Usage: "Age filter (all, general, r18)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Load every chunk before printing",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the view as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := newClient(ctx, c)
			if err != nil {
				return err
			}
			defer client.Close()

			s := client.NewSession()
			view := s.Search(ctx, searchQuery(c))
			if view.Error != "" {
				return errors.New(view.Error)
			}
			for c.Bool("all") && view.PageState.HasMore {
				view = s.LoadMore(ctx)
				if view.Error != "" {
					return errors.New(view.Error)
				}
			}

			if c.Bool("json") {
				return printJSON(view)
			}
			fmt.Print(renderView(view))
			return nil
		},
	}
}

// searchQuery merges the flag overrides into the query string argument.
func searchQuery(c *cli.Command) string {
	// Undecodable pairs are dropped; the rest still apply.
	v, _ := url.ParseQuery(strings.TrimPrefix(c.Args().First(), "?"))
	if n := c.Int("page"); n > 0 {
		v.Set("page", strconv.Itoa(n))
	}
	if n := c.Int("size"); n > 0 {
		v.Set("size", strconv.Itoa(n))
	}
	if sortBy := c.String("sort"); sortBy != "" {
		v.Set("sortBy", sortBy)
	}
	if age := c.String("age"); age != "" {
		v.Set("ageFilter", age)
	}
	return v.Encode()
}

func statsCommand() *cli.Command {
	return rawLookupCommand("stats", "Print the aggregate stats of a user", "<user id>",
		func(ctx context.Context, client *novelsearch.Client, arg string) (json.RawMessage, error) {
			return client.UserStats(ctx, arg)
		})
}

func activityCommand() *cli.Command {
	return rawLookupCommand("activity", "Print the recent activity of a user", "<user id>",
		func(ctx context.Context, client *novelsearch.Client, arg string) (json.RawMessage, error) {
			return client.UserActivity(ctx, arg)
		})
}

func contestsCommand() *cli.Command {
	return rawLookupCommand("contests", "Print the contests using a tag", "<tag>",
		func(ctx context.Context, client *novelsearch.Client, arg string) (json.RawMessage, error) {
			return client.ContestsByTag(ctx, arg)
		})
}

type lookupFunc func(ctx context.Context, client *novelsearch.Client, arg string) (json.RawMessage, error)

func rawLookupCommand(name, usage, argsUsage string, lookup lookupFunc) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(ctx context.Context, c *cli.Command) error {
			arg := c.Args().First()
			if arg == "" {
				return fmt.Errorf("%s: missing %s", name, argsUsage)
			}
			client, err := newClient(ctx, c)
			if err != nil {
				return err
			}
			defer client.Close()

			raw, err := lookup(ctx, client, arg)
			if err != nil {
				return err
			}
			fmt.Println(renderRaw(name, arg, raw))
			return nil
		},
	}
}

func followCommand() *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Usage:     "Follow or unfollow a user (requires --cookie)",
		ArgsUsage: "<user id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "undo",
				Usage: "Unfollow instead",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			userID := c.Args().First()
			if userID == "" {
				return errors.New("follow: missing <user id>")
			}
			client, err := newClient(ctx, c)
			if err != nil {
				return err
			}
			defer client.Close()

			s := client.NewSession()
			if c.Bool("undo") {
				err = s.Unfollow(ctx, userID)
			} else {
				err = s.Follow(ctx, userID)
			}
			if err != nil {
				return err
			}
			fmt.Println(renderFollow(userID, !c.Bool("undo")))
			return nil
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the cache store and the platform API",
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := newClient(ctx, c)
			if err != nil {
				return err
			}
			defer client.Close()

			h := client.Health(ctx)
			fmt.Println(renderHealth(h))
			if h.Status != "ok" {
				return fmt.Errorf("health: %s", h.Status)
			}
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
