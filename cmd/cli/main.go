package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/auth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	token   string
	timeout time.Duration
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "debtledger-cli",
		Short:         "DebtLedger CLI tool",
		Long:          `A command line interface for the DebtLedger admin API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("DEBTLEDGER_URL", "http://localhost:8080"), "Base URL of the DebtLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("DEBTLEDGER_TOKEN"), "Bearer token for the admin API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		newDebtorsCmd(opts),
		newBalanceCmd(opts),
		newHistoryCmd(opts),
		newSetBalanceCmd(opts),
		newDueCmd(opts),
		newPurgeCmd(opts),
		newTokenCmd(),
		newMigrateCmd(),
	)

	return rootCmd
}

func newDebtorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "debtors",
		Short: "List accounts with a positive balance, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListDebtorsResponse
			if err := opts.client().do(http.MethodGet, "/api/v1/debtors", nil, &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tBALANCE")
			for _, d := range resp.Debtors {
				fmt.Fprintf(w, "%s\t%s\n", d.AccountID, d.Balance)
			}
			fmt.Fprintf(w, "TOTAL\t%s\n", resp.Total)
			return w.Flush()
		},
	}
}

func newBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's balance and due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			if err := opts.client().do(http.MethodGet, accountPath(args[0], ""), nil, &resp); err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), opts.asJSON, resp)
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history <account>",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			var resp dto.ListTransactionsResponse
			if err := opts.client().do(http.MethodGet, accountPath(args[0], "/transactions")+"?"+q.Encode(), nil, &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RECORDED\tCATEGORY\tAMOUNT\tBALANCE\tREFERENCE")
			for _, t := range resp.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.RecordedAt.Format(time.DateTime), t.Category, t.Amount, t.NewBalance, truncate(t.ReferenceID, 16))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of transactions")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")

	return cmd
}

func newSetBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <account> <value>",
		Short: "Overwrite an account's balance, rounded up to a whole unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := domain.ParseAmount(args[1])
			if err != nil {
				return err
			}

			var resp dto.AccountResponse
			body := dto.SetBalanceRequest{Balance: &value}
			if err := opts.client().do(http.MethodPut, accountPath(args[0], "/balance"), body, &resp); err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), opts.asJSON, resp)
		},
	}
}

func newDueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "due <account> <dd/mm>",
		Short: "Set an account's recurring due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			body := dto.SetDueDateRequest{DueDate: args[1]}
			if err := opts.client().do(http.MethodPut, accountPath(args[0], "/due-date"), body, &resp); err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), opts.asJSON, resp)
		},
	}
}

func newPurgeCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <account>",
		Short: "Delete an account and its whole history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to purge %s without --yes", args[0])
			}
			if err := opts.client().do(http.MethodDelete, accountPath(args[0], ""), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s purged\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the purge")

	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret   string
		role     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <operator>",
		Short: "Issue a bearer token for the admin API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, duration).Generate(&domain.Operator{ID: args[0], Role: domain.Role(role)})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "Operator role (admin or viewer)")
	cmd.Flags().DurationVar(&duration, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

type apiClient struct {
	http    *http.Client
	baseURL string
	token   string
}

func (o *options) client() *apiClient {
	return &apiClient{
		http:    &http.Client{Timeout: o.timeout},
		baseURL: o.baseURL,
		token:   o.token,
	}
}

func (c *apiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func accountPath(account, suffix string) string {
	return "/api/v1/accounts/" + url.PathEscape(domain.NormalizeAccountID(account)) + suffix
}

func printAccount(w io.Writer, asJSON bool, a dto.AccountResponse) error {
	if asJSON {
		return printJSON(w, a)
	}

	due := a.DueDate
	if due == "" {
		due = "-"
	}

	_, err := fmt.Fprintf(w, "Account: %s\nBalance: %s\nSettled: %v\nDue:     %s\n", a.ID, a.Balance, a.Settled, due)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
