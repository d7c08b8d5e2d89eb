package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alertify/backend/internal/config"
	"github.com/alertify/backend/internal/services"
)

const usage = `Usage:
  forum-admin reconcile  [--dry-run]        recompute stars/postCount for every user
  forum-admin reset-user <uid> [--dry-run]  zero out a user's stars
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	ledger, err := openLedger(ctx, cfg)
	if err != nil {
		log.Printf("[forum-admin] init failed: %v", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "reconcile":
		fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
		dryRun := fs.Bool("dry-run", false, "report changes without writing")
		fs.Parse(os.Args[2:])

		changed, err := ledger.ReconcileAllUsers(ctx, *dryRun)
		if err != nil {
			log.Printf("[forum-admin] reconcile failed: %v", err)
			os.Exit(1)
		}
		if *dryRun {
			fmt.Printf("reconcile (dry run): %d user(s) would change\n", changed)
		} else {
			fmt.Printf("reconcile: %d user(s) updated\n", changed)
		}

	case "reset-user":
		uid, dryRun, ok := parseResetUserArgs(os.Args[2:])
		if !ok {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}

		if dryRun {
			if _, err := ledger.GetProfile(ctx, uid); err != nil {
				log.Printf("[forum-admin] user %s not found", uid)
				os.Exit(2)
			}
			fmt.Printf("reset-user (dry run): would zero stars for %s\n", uid)
			return
		}

		if err := ledger.ResetUserStars(ctx, uid); err != nil {
			if err == services.ErrUserNotFound {
				log.Printf("[forum-admin] user %s not found", uid)
				os.Exit(2)
			}
			log.Printf("[forum-admin] reset-user failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("reset-user: stars zeroed for %s\n", uid)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// parseResetUserArgs accepts --dry-run on either side of the uid; flag
// parsing stops at the first positional arg, so the remainder is parsed a
// second time.
func parseResetUserArgs(args []string) (uid string, dryRun bool, ok bool) {
	fs := flag.NewFlagSet("reset-user", flag.ContinueOnError)
	dr := fs.Bool("dry-run", false, "report without writing")
	if err := fs.Parse(args); err != nil {
		return "", false, false
	}
	uid = fs.Arg(0)
	if fs.NArg() > 1 {
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return "", false, false
		}
	}
	if uid == "" {
		return "", false, false
	}
	return uid, *dr, true
}

func openLedger(ctx context.Context, cfg *config.Config) (*services.LedgerService, error) {
	var store services.LedgerStore
	if cfg.FirebaseProjectID != "" {
		s, err := services.NewFirestoreLedgerStore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		s, err := services.NewFileLedgerStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store = s
	}
	return services.NewLedgerService(store), nil
}
