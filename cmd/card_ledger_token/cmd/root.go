package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/platform/config"
	"github.com/SscSPs/card_ledger_app/internal/utils"
	"github.com/spf13/cobra"
)

const (
	flagSubject = "subject"
	flagTTL     = "ttl"
)

// rootCmd mints operator bearer tokens signed with JWT_SECRET.
var rootCmd = &cobra.Command{
	Use:          "card_ledger_token",
	Short:        "Mint an operator bearer token for the admin API",
	Example:      "card_ledger_token --subject ops-alice --ttl 8h",
	SilenceUsage: true,
	RunE:         mintToken,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP(flagSubject, "s", "", "operator recorded as the actor on changes")
	_ = rootCmd.MarkFlagRequired(flagSubject)
	rootCmd.Flags().DurationP(flagTTL, "t", 12*time.Hour, "token lifetime")
}

func mintToken(ccmd *cobra.Command, _ []string) error {
	subject, err := ccmd.Flags().GetString(flagSubject)
	if err != nil {
		return err
	}
	ttl, err := ccmd.Flags().GetDuration(flagTTL)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("--%s must be positive", flagTTL)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	token, err := utils.GenerateJWT(subject, cfg.JWTSecret, ttl, utils.OperatorTokenIssuer)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(ccmd.OutOrStdout(), token)
	return nil
}
