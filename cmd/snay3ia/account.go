package main

import (
	"fmt"
	"os"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "User account management commands",
	}

	cmd.AddCommand(newAccountCreateCmd())
	cmd.AddCommand(newAccountListCmd())
	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		email      string
		role       string
		token      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Creates a client or worker account and prints its bearer token.

When run interactively without --token, prompts for a token with echo
disabled; leave it empty to have one generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountCreate(cmd, configPath, name, email, role, token)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", "client", "account role: client or worker")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (generated when empty)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runAccountCreate(cmd *cobra.Command, configPath, name, email, role, token string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	if token == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(out, "Token (empty to generate): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token = string(raw)
	}

	acct, err := identity.CreateAccount(gormDB, identity.CreateOpts{
		DisplayName: name,
		Email:       email,
		Role:        role,
		Token:       token,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s account %s (%s)\n", acct.Role, acct.ID, acct.DisplayName)
	fmt.Fprintf(out, "Token: %s\n", acct.Token)
	return nil
}

func newAccountListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	return cmd
}

func runAccountList(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	var accts []models.UserAccount
	if err := gormDB.Order("created_at ASC").Find(&accts).Error; err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	if len(accts) == 0 {
		fmt.Fprintln(out, "No accounts.")
		return nil
	}
	for _, a := range accts {
		fmt.Fprintf(out, "%s  %-6s  %s", a.ID, a.Role, a.DisplayName)
		if a.Email != "" {
			fmt.Fprintf(out, " <%s>", a.Email)
		}
		fmt.Fprintln(out)
	}
	return nil
}
