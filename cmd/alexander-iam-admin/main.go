// Package main is the entry point for the Alexander IAM admin CLI.
// It provides bootstrap and inspection commands that talk straight to the
// database, bypassing the HTTP API. Creating the first admin account has to
// happen here because signup never grants the admin role.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/bootstrap"
	"github.com/prn-tf/alexander-iam/internal/config"
	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/pkg/crypto"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "version":
		fmt.Printf("Alexander IAM Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "create-admin":
		if err := runCreateAdmin(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "list":
		if err := runList(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "stats":
		if err := runStats(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStore loads config and opens the database for a CLI command.
func openStore(ctx context.Context, configPath string) (*bootstrap.Store, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	// CLI output goes to stdout, keep backend logs quiet.
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	store, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func runCreateAdmin(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	username := fs.String("username", "", "admin username")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("username, email, and password are required")
	}

	if err := domain.ValidateUsername(*username); err != nil {
		return err
	}
	if err := domain.ValidateEmail(*email); err != nil {
		return err
	}
	if err := domain.ValidatePassword(*password); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, cfg, err := openStore(ctx, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)
	hash, err := hasher.Hash(*password)
	if err != nil {
		return err
	}

	user := domain.NewUser(*username, *email, hash)
	user.Role = domain.RoleAdmin

	if err := store.Users.Create(ctx, user); err != nil {
		return err
	}

	fmt.Printf("Admin user created: id=%d username=%s email=%s\n", user.ID, user.Username, user.Email)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	role := fs.String("role", "", "filter by role (user, admin, moderator)")
	activeOnly := fs.Bool("active", false, "only show active users")
	limit := fs.Int("limit", 100, "maximum number of users to show")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, _, err := openStore(ctx, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := repository.ListOptions{Limit: *limit, ActiveOnly: *activeOnly}
	if *role != "" {
		parsed, err := domain.ParseRole(*role)
		if err != nil {
			return err
		}
		opts.Role = parsed
	}

	result, err := store.Users.List(ctx, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tCREATED")
	for _, u := range result.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n",
			u.ID, u.Username, u.Email, u.Role, u.IsActive, u.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d\n", result.Total)
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, _, err := openStore(ctx, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Users.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total users:    %d\n", stats.Total)
	fmt.Printf("Active:         %d\n", stats.Active)
	fmt.Printf("Inactive:       %d\n", stats.Inactive)
	for _, role := range domain.AllRoles {
		fmt.Printf("Role %-10s %d\n", role.String()+":", stats.ByRole[role])
	}
	return nil
}

func printUsage() {
	fmt.Println(`Alexander IAM Admin CLI

Usage:
  alexander-iam-admin <command> [arguments]

Commands:
  create-admin   Create an admin account directly in the database
  list           List user accounts
  stats          Show aggregate user statistics
  version        Print version information
  help           Show this help message

Examples:
  alexander-iam-admin create-admin --username admin --email admin@example.com --password <secret>
  alexander-iam-admin list --role moderator --active
  alexander-iam-admin stats

Use "alexander-iam-admin <command> --help" for more information about a command.`)
}
