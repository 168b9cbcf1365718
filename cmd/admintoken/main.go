// Command admintoken mints a bearer token for the catalog's write routes.
// The secret is read from AUTH_JWT_SECRET (or a .env file) unless --secret
// is given.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "admintoken",
		Short:         "Mint a bearer token for the movie catalog API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.secret = cfg.Auth.JWTSecret
			}
			return run(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.secret, "secret", "", "signing secret (defaults to AUTH_JWT_SECRET)")
	cmd.Flags().StringVar(&opts.subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&opts.role, "role", auth.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", defaultTTL, "token lifetime")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print token and expiry as JSON")
	return cmd
}
