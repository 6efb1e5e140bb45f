package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/config"
	"github.com/jonathan/resume-bender/internal/credits"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage user plans and admin credentials",
}

var (
	planUserID    string
	planName      string
	planUnlimited bool
	planAllowance int
)

var setPlanCmd = &cobra.Command{
	Use:   "set-plan",
	Short: "Change a user's plan and optionally reset their balance",
	Args:  cobra.NoArgs,
	RunE:  runSetPlan,
}

var (
	hashKeyPepper string
	hashKeyCost   int
)

var hashAdminKeyCmd = &cobra.Command{
	Use:   "hash-admin-key <key>",
	Short: "Print the ADMIN_KEY_HASH value for a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashAdminKey,
}

func init() {
	setPlanCmd.Flags().StringVar(&planUserID, "user", "", "User id (required)")
	setPlanCmd.Flags().StringVar(&planName, "plan", credits.PlanFree, "Plan name")
	setPlanCmd.Flags().BoolVar(&planUnlimited, "unlimited", false, "Skip credit checks for this user")
	setPlanCmd.Flags().IntVar(&planAllowance, "allowance", 0, "Overwrite the remaining balance")
	_ = setPlanCmd.MarkFlagRequired("user")

	hashAdminKeyCmd.Flags().StringVar(&hashKeyPepper, "pepper", "", "Value of ADMIN_KEY_PEPPER")
	hashAdminKeyCmd.Flags().IntVar(&hashKeyCost, "cost", config.AdminKeyCost, "bcrypt cost (10-14)")

	accountCmd.AddCommand(setPlanCmd, hashAdminKeyCmd)
	rootCmd.AddCommand(accountCmd)
}

func runSetPlan(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(planUserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	plan := strings.ToLower(strings.TrimSpace(planName))
	if plan == "" {
		return fmt.Errorf("--plan cannot be empty")
	}

	var allowance *int
	if cmd.Flags().Changed("allowance") {
		if planAllowance < 0 {
			return fmt.Errorf("--allowance must be non-negative")
		}
		allowance = &planAllowance
	}

	return withStore(cmd.Context(), func(a *app) error {
		if err := a.store.SetPlan(cmd.Context(), userID, plan, planUnlimited, allowance); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %s is now on plan %q (unlimited=%t)\n", userID, plan, planUnlimited)
		return nil
	})
}

func runHashAdminKey(cmd *cobra.Command, args []string) error {
	if hashKeyCost < 10 || hashKeyCost > 14 {
		return fmt.Errorf("--cost must be between 10 and 14")
	}
	hash, err := config.HashAdminKey(args[0], hashKeyPepper, hashKeyCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
