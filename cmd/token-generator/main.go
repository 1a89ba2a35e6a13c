// Package main implements token-generator, which mints learner tokens signed
// with the configured auth secret. Tokens scope API calls and the activity
// log to one learner.
package main

import (
	"fmt"
	"os"

	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		learnerID string
		configDir string
		lifetime  int
	)

	cmd := &cobra.Command{
		Use:   "token-generator --learner <id>",
		Short: "Mint a learner token for the Monitize API",
		Long: `Mints a bearer token identifying a learner. The signing secret is read from
MONITIZE_AUTH_JWT_SECRET or the auth section of config.yaml.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !auth.ValidLearnerID(learnerID) {
				return fmt.Errorf("%w: %q", auth.ErrInvalidLearnerID, learnerID)
			}

			authCfg, err := config.LoadAuth(configDir)
			if err != nil {
				return err
			}
			if lifetime > 0 {
				authCfg.TokenLifetimeMinutes = lifetime
			}

			svc, err := auth.NewJWTService(authCfg)
			if err != nil {
				return err
			}
			token, err := svc.GenerateToken(cmd.Context(), learnerID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&learnerID, "learner", "", "learner ID (letters, digits, '-' and '_')")
	cmd.Flags().StringVar(&configDir, "config-dir", ".", "directory containing config.yaml")
	cmd.Flags().IntVar(&lifetime, "lifetime", 0, "token lifetime in minutes (default from config)")
	_ = cmd.MarkFlagRequired("learner")

	return cmd
}
