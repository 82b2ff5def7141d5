package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erp/custadmin/internal/infrastructure/auth"
	"github.com/erp/custadmin/internal/infrastructure/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, loadConfig); err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
}

type configLoader func(path string) (*config.Config, error)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// run parses args and executes one command, writing results to out
func run(ctx context.Context, args []string, out io.Writer, load configLoader) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		configPath string
		subject    string
		username   string
		ttl        time.Duration
	)
	fs.StringVar(&configPath, "config", "", "Config file (default: config.toml in . or /app)")
	fs.StringVar(&subject, "sub", "", "Subject of the issued token (required for issue)")
	fs.StringVar(&username, "username", "", "Username claim")
	fs.DurationVar(&ttl, "ttl", 0, "Token lifetime for issue, or how long a revocation is kept (default: jwt.access_token_expiration)")
	fs.Usage = func() { printUsage(out, fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("command required")
	}

	cfg, err := load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWT.UsingDefaultSecret {
		fmt.Fprintln(os.Stderr, "warning: jwt.secret is not set, signing with the built-in development secret")
	}

	switch rest[0] {
	case "issue":
		issued, err := auth.NewJWTService(cfg.JWT).IssueToken(auth.PrincipalInput{
			Subject:  subject,
			Username: username,
			TTL:      ttl,
		})
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(issued)

	case "revoke":
		if len(rest) < 2 {
			return errors.New("revoke needs a token id: tokengen revoke <jti>")
		}
		if !cfg.Redis.Enabled {
			return errors.New("revoke needs redis.enabled=true")
		}
		if ttl <= 0 {
			ttl = cfg.JWT.AccessTokenExpiration
		}
		list, err := auth.NewRedisRevocationList(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = list.Close() }()
		if err := list.Revoke(ctx, rest[1], ttl); err != nil {
			return err
		}
		fmt.Fprintf(out, "revoked %s for %s\n", rest[1], ttl)
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func printUsage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprint(out, `custadmin bearer token tool

Usage:
  tokengen [flags] <command> [arguments]

Commands:
  issue          Sign a token for -sub and print it as JSON
  revoke <jti>   Add a token id to the Redis revocation list

Flags:
`)
	fs.PrintDefaults()
	fmt.Fprint(out, `
The signing secret comes from jwt.secret (CUSTADMIN_JWT_SECRET), the same
value the API server verifies with.
`)
}
