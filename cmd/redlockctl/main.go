// redlockctl is a small command-line client for exercising a Redlock
// Coordinator against a set of live Redis-compatible servers.
//
// Usage:
//
//	redlockctl acquire --servers 127.0.0.1:6379,127.0.0.1:6380 --resource orders:42 --ttl 5s
//	redlockctl release --servers 127.0.0.1:6379 --resource orders:42 --value <token>
//
// This is a debugging aid, not a production API — applications should
// import the redlock package directly.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/redlock"
)

func main() {
	cmd := &cli.Command{
		Name:  "redlockctl",
		Usage: "exercise a Redlock coordinator against one or more Redis servers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "servers",
				Usage:    "comma-separated host:port list of Redis-compatible servers",
				Value:    "127.0.0.1:6379",
				Sources:  cli.EnvVars("REDLOCKCTL_SERVERS"),
				Required: false,
			},
		},
		Commands: []*cli.Command{
			acquireCommand(),
			releaseCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "redlockctl:", err)
		os.Exit(1)
	}
}

func acquireCommand() *cli.Command {
	return &cli.Command{
		Name:  "acquire",
		Usage: "acquire a lease on a resource and print its fencing value",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "resource", Required: true},
			&cli.DurationFlag{Name: "ttl", Value: 5 * time.Second},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			coord, err := coordinatorFromFlags(cmd)
			if err != nil {
				return err
			}
			lease, err := coord.Acquire(ctx, cmd.String("resource"), cmd.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Printf("acquired resource=%s value=%s expiration=%s\n",
				lease.Resource(), lease.Value(), lease.Expiration().Format(time.RFC3339Nano))
			return nil
		},
	}
}

func releaseCommand() *cli.Command {
	return &cli.Command{
		Name:  "release",
		Usage: "release a resource given its fencing value",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "resource", Required: true},
			&cli.StringFlag{Name: "value", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			coord, err := coordinatorFromFlags(cmd)
			if err != nil {
				return err
			}
			lease := redlock.RestoreLease(coord, cmd.String("resource"), cmd.String("value"), time.Now().Add(time.Hour))
			if err := lease.Release(ctx); err != nil {
				return err
			}
			fmt.Println("released")
			return nil
		},
	}
}

func coordinatorFromFlags(cmd *cli.Command) (*redlock.Coordinator, error) {
	addrs := strings.Split(cmd.String("servers"), ",")
	servers := make([]redlock.Server, 0, len(addrs))
	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		srv, err := redlock.NewServer(client, addr)
		if err != nil {
			return nil, err
		}
		servers = append(servers, srv)
	}
	return redlock.New(servers)
}
