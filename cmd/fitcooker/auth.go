package fitcooker

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/auth"
)

const tokenIssuer = "fitcooker"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Issue and inspect author tokens",
}

var (
	authUser     string
	authDuration time.Duration
	authToken    string
)

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed author token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := tokenService()
		if err != nil {
			return err
		}
		ts.Duration = authDuration
		token, exp, err := ts.Sign(authUser)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s; export FITCOOKER_TOKEN to sign in\n", exp.Format(time.RFC3339))
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the author resolved from the current token",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := resolveIdentity(authToken)
		if err != nil {
			return err
		}
		user, ok := identity.UserID()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), user)
		return nil
	},
}

func tokenService() (auth.TokenService, error) {
	secret := os.Getenv("FITCOOKER_JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		return auth.TokenService{}, fmt.Errorf("FITCOOKER_JWT_SECRET is not set")
	}
	return auth.TokenService{Secret: []byte(secret), Issuer: tokenIssuer}, nil
}

// resolveIdentity turns --token or $FITCOOKER_TOKEN into an identity. No
// token means signed out.
func resolveIdentity(flagValue string) (auth.Identity, error) {
	token := envOr(flagValue, "FITCOOKER_TOKEN")
	if token == "" {
		return auth.Identity{}, nil
	}
	ts, err := tokenService()
	if err != nil {
		return auth.Identity{}, err
	}
	return ts.Identify(token)
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd, authWhoamiCmd)
	authTokenCmd.Flags().StringVar(&authUser, "user", "", "Author id to embed in the token")
	authTokenCmd.Flags().DurationVar(&authDuration, "ttl", auth.DefaultTokenDuration, "Token lifetime")
	_ = authTokenCmd.MarkFlagRequired("user")
	authWhoamiCmd.Flags().StringVar(&authToken, "token", "", "Token to inspect (default: $FITCOOKER_TOKEN)")
}
