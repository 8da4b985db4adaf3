package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/config"
	"github.com/cig-platform/backoffice-bff-client/internal/iocontext"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage stored credentials",
		Long:    "Store the BFF base URL and session token in the OS keyring.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		tokenStdin bool
		verify     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the BFF URL and token",
		Example: strings.TrimSpace(`
  # Save credentials to the default profile
  cig-bff auth login --url https://bff.example.com --token TOKEN

  # Read the token from stdin and save to a named profile
  echo "$TOKEN" | cig-bff auth login --url https://bff.example.com --token-stdin --profile staging
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			baseURL := strings.TrimSpace(flags.URL)
			token := strings.TrimSpace(flags.Token)
			if tokenStdin {
				if token != "" {
					return usageErrorf("--token and --token-stdin cannot be used together")
				}
				line, err := bufio.NewReader(iocontext.GetIO(cmd.Context()).In).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token from stdin: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if baseURL == "" {
				return usageErrorf("--url is required")
			}
			if token == "" {
				return usageErrorf("--token or --token-stdin is required")
			}

			if verify {
				healthy, err := newClientFactory().newClient(baseURL).HealthCheck(cmdContext(cmd))
				if err != nil {
					return &api.TransportError{Method: "GET", URL: baseURL + "/health", Err: err}
				}
				if !healthy {
					return fmt.Errorf("BFF at %s did not report healthy", baseURL)
				}
			}

			if err := config.SaveProfile(flags.Profile, config.Profile{BaseURL: baseURL, Token: token}); err != nil {
				return err
			}

			profile := flags.Profile
			if profile == "" {
				profile = "default"
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"profile": profile, "base_url": strings.TrimRight(baseURL, "/")})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s to profile %q\n", strings.TrimRight(baseURL, "/"), profile)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&tokenStdin, "token-stdin", false, "Read the token from stdin")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check GET /health before saving")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteProfile(flags.Profile); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed stored credentials")
			return nil
		}),
	}
}

type authStatus struct {
	BaseURL       string        `json:"base_url"`
	BaseURLSource config.Source `json:"base_url_source"`
	Token         string        `json:"token,omitempty"`
	TokenSource   config.Source `json:"token_source,omitempty"`
	Profile       string        `json:"profile,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved connection settings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Resolve(newClientFactory().overrides)
			if err != nil {
				return err
			}
			status := authStatus{
				BaseURL:       settings.BaseURL,
				BaseURLSource: settings.BaseURLSource,
				Token:         config.MaskToken(settings.Token),
				TokenSource:   settings.TokenSource,
				Profile:       settings.Profile,
			}
			if isJSON(cmd) {
				return printJSON(cmd, status)
			}

			f := formatter(cmd)
			f.Field("Base URL", fmt.Sprintf("%s (%s)", status.BaseURL, status.BaseURLSource))
			if status.Token != "" {
				f.Field("Token", fmt.Sprintf("%s (%s)", status.Token, status.TokenSource))
			} else {
				f.Field("Token", "not set")
			}
			f.Field("Profile", status.Profile)
			return nil
		}),
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the BFF answers GET /health",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			healthy, err := s.client.HealthCheck(cmdContext(cmd))
			if err != nil {
				return &api.TransportError{Method: "GET", URL: s.client.BaseURL() + "/health", Err: err}
			}
			if isJSON(cmd) {
				if err := printJSON(cmd, map[string]any{"base_url": s.client.BaseURL(), "healthy": healthy}); err != nil {
					return err
				}
			} else if healthy {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is healthy\n", s.client.BaseURL())
			}
			if !healthy {
				return &handledError{err: fmt.Errorf("BFF at %s is unhealthy", s.client.BaseURL()), exitCode: exitServer}
			}
			return nil
		}),
	}
}
