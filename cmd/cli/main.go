package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clariohq/tokenledger/internal/infrastructure/auth"
	"github.com/clariohq/tokenledger/internal/infrastructure/postgres"
)

var (
	baseURL        string
	timeout        time.Duration
	authToken      string
	idempotencyKey string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tokenledger-cli",
		Short: "TokenLedger CLI tool",
		Long:  `A command line interface for interacting with the TokenLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TokenLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("TOKENLEDGER_TOKEN"), "Bearer token for authenticated deployments")

	rootCmd.AddCommand(
		walletCmd(),
		tokensCmd(),
		referralCmd(),
		migrateCmd(),
		issueTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet reads",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the wallet balance for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/wallets/" + args[0] + "/balance")
		},
	})

	historyCmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "List ledger entries for an account, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cursor, _ := cmd.Flags().GetString("cursor")
			limit, _ := cmd.Flags().GetInt("limit")
			path := fmt.Sprintf("/api/v1/wallets/%s/history?limit=%d", args[0], limit)
			if cursor != "" {
				path += "&cursor=" + cursor
			}
			doGet(path)
		},
	}
	historyCmd.Flags().String("cursor", "", "Entry ID to page from")
	historyCmd.Flags().Int("limit", 50, "Page size")
	cmd.AddCommand(historyCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <account-id>",
		Short: "Replay the ledger and compare against the stored balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/wallets/" + args[0] + "/verify")
		},
	})

	return cmd
}

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Token mutations",
	}
	cmd.PersistentFlags().StringVar(&idempotencyKey, "key", "", "Idempotency key (required)")

	cmd.AddCommand(&cobra.Command{
		Use:   "consume <account-id> <amount>",
		Short: "Debit tokens from a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/tokens/consume", map[string]any{
				"account_id":      args[0],
				"amount":          mustParseAmount(args[1]),
				"idempotency_key": idempotencyKey,
			})
		},
	})

	reserveCmd := &cobra.Command{
		Use:   "reserve <account-id> <amount>",
		Short: "Reserve tokens for a pending job",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			jobID, _ := cmd.Flags().GetString("job")
			doPost("/api/v1/tokens/reserve", map[string]any{
				"account_id":      args[0],
				"amount":          mustParseAmount(args[1]),
				"idempotency_key": idempotencyKey,
				"job_id":          jobID,
			})
		},
	}
	reserveCmd.Flags().String("job", "", "Job ID the reservation covers")
	cmd.AddCommand(reserveCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "release <account-id> <amount> <reservation-entry-id>",
		Short: "Release a reservation back to the available balance",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/tokens/release", map[string]any{
				"account_id":     args[0],
				"amount":         mustParseAmount(args[1]),
				"reservation_id": args[2],
			})
		},
	})

	creditCmd := &cobra.Command{
		Use:   "credit <account-id> <amount>",
		Short: "Credit tokens to a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			source, _ := cmd.Flags().GetString("source")
			reference, _ := cmd.Flags().GetString("reference")
			doPost("/api/v1/tokens/credit", map[string]any{
				"account_id":       args[0],
				"amount":           mustParseAmount(args[1]),
				"source":           source,
				"source_reference": reference,
				"idempotency_key":  idempotencyKey,
			})
		},
	}
	creditCmd.Flags().String("source", "manual", "Provenance tag (stripe, referral, manual, app, system)")
	creditCmd.Flags().String("reference", "", "External reference, e.g. a payment ID")
	cmd.AddCommand(creditCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "refund <account-id> <amount> <original-entry-id>",
		Short: "Refund a prior consumption",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/tokens/refund", map[string]any{
				"account_id":       args[0],
				"amount":           mustParseAmount(args[1]),
				"source_reference": args[2],
				"idempotency_key":  idempotencyKey,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "adjust <account-id> <delta>",
		Short: "Apply a signed manual adjustment (admin scope)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/tokens/adjust", map[string]any{
				"account_id":      args[0],
				"delta":           mustParseAmount(args[1]),
				"idempotency_key": idempotencyKey,
			})
		},
	})

	return cmd
}

func referralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Referral rewards",
	}

	rewardCmd := &cobra.Command{
		Use:   "reward <account-id> <referral-id>",
		Short: "Grant a referral conversion reward",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			amount, _ := cmd.Flags().GetInt64("amount")
			body := map[string]any{
				"account_id":  args[0],
				"referral_id": args[1],
			}
			if amount > 0 {
				body["amount"] = amount
			}
			doPost("/api/v1/referrals/reward", body)
		},
	}
	rewardCmd.Flags().Int64("amount", 0, "Override the default reward amount")
	cmd.AddCommand(rewardCmd)

	return cmd
}

func migrateCmd() *cobra.Command {
	var dbURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().StringVar(&dbURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(dbURL, path); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(dbURL, path); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migration rolled back")
		},
	})

	return cmd
}

func issueTokenCmd() *cobra.Command {
	var secret, scope string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token <service-name>",
		Short: "Issue a service JWT for authenticated deployments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			manager := auth.NewJWTManager(secret, duration)
			token, err := manager.Generate(args[0], scope)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&scope, "scope", auth.ScopeRead, "Scope to embed (ledger:read, ledger:write, ledger:admin)")
	cmd.Flags().DurationVar(&duration, "duration", 24*time.Hour, "Token lifetime")

	return cmd
}

func doGet(path string) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	doRequest(req)
}

func doPost(path string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	doRequest(req)
}

func doRequest(req *http.Request) {
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(body), 2000))
		os.Exit(1)
	}

	if replay := resp.Header.Get("X-Idempotency-Replay"); replay == "true" {
		fmt.Println("(replayed)")
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func mustParseAmount(s string) int64 {
	var amount int64
	if _, err := fmt.Sscanf(s, "%d", &amount); err != nil {
		fmt.Printf("Invalid amount %q: %v\n", s, err)
		os.Exit(1)
	}
	return amount
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
