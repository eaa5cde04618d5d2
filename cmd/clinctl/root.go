package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/clinical-data-api/internal/client"
)

// globals are the flags shared by every subcommand.
type globals struct {
	server   string
	output   string
	username string
	password string
}

// connect builds a client and, when credentials are set, logs in first so
// the session attributes audit entries to that user.
func (g *globals) connect(ctx context.Context) (*client.Client, error) {
	c, err := client.New(g.server, client.WithoutCache())
	if err != nil {
		return nil, err
	}
	if g.username != "" {
		if _, err := c.Login(ctx, g.username, g.password); err != nil {
			return nil, fmt.Errorf("login as %s: %w", g.username, err)
		}
	}
	return c, nil
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "clinctl",
		Short: "Manage users, datasets and models of a clinical data API server",
		Long: `clinctl talks to a clinical data API server.

Examples:
  clinctl datasets list --modality ehr
  clinctl -u admin -p password123 users create --username jdoe --password s3cretpass \
      --full-name "J. Doe" --institution "City Clinic"
  clinctl models run 1 --dataset 2 -o yaml
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(g.output)
		},
	}

	cmd.PersistentFlags().StringVar(&g.server, "server", envOr("CLINCTL_SERVER", "http://localhost:8080"), "API server base URL")
	cmd.PersistentFlags().StringVarP(&g.output, "output", "o", formatJSON, "Output format (json|yaml)")
	cmd.PersistentFlags().StringVarP(&g.username, "login", "u", os.Getenv("CLINCTL_USERNAME"), "Log in as this user before the command")
	cmd.PersistentFlags().StringVarP(&g.password, "login-password", "p", os.Getenv("CLINCTL_PASSWORD"), "Password for --login")

	cmd.AddCommand(whoamiCmd(g))
	cmd.AddCommand(usersCmd(g))
	cmd.AddCommand(datasetsCmd(g))
	cmd.AddCommand(modelsCmd(g))
	cmd.AddCommand(auditCmd(g))

	return cmd
}

func whoamiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the credentials log in as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			user, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.output, user)
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
