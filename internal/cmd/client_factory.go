package cmd

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/config"
	"github.com/cig-platform/backoffice-bff-client/internal/dryrun"
	"github.com/cig-platform/backoffice-bff-client/internal/iocontext"
)

// session is a resolved client plus the token sent on each call.
type session struct {
	client   *api.Client
	token    string
	settings config.Settings
}

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	overrides config.Overrides
	wrap      func(http.RoundTripper) http.RoundTripper
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("cig-bff/%s", version),
		overrides: config.Overrides{
			BaseURL:    flags.URL,
			Token:      flags.Token,
			Profile:    flags.Profile,
			DotEnvPath: flags.DotEnv,
		},
	}
}

func (f *clientFactory) session() (*session, error) {
	settings, err := config.Resolve(f.overrides)
	if err != nil {
		return nil, err
	}
	return &session{
		client:   f.newClient(settings.BaseURL),
		token:    settings.Token,
		settings: settings,
	}, nil
}

func (f *clientFactory) newClient(baseURL string) *api.Client {
	opts := []api.Option{api.WithUserAgent(f.userAgent)}
	if f.timeout > 0 {
		opts = append(opts, api.WithTimeout(f.timeout))
	}
	if f.wrap != nil {
		opts = append(opts, api.WithTransportWrapper(f.wrap))
	}
	return api.New(baseURL, opts...)
}

// getSession resolves configuration and builds a client for the current
// flags. In dry-run mode mutating requests are previewed instead of sent.
func getSession(cmd *cobra.Command) (*session, error) {
	f := newClientFactory()
	if dryrun.IsEnabled(cmd.Context()) {
		var mu sync.Mutex
		f.wrap = func(base http.RoundTripper) http.RoundTripper {
			return &dryrun.Transport{Base: base, Emit: func(p *dryrun.Preview) error {
				mu.Lock()
				defer mu.Unlock()
				return printPreview(cmd, p)
			}}
		}
	}
	return f.session()
}

func printPreview(cmd *cobra.Command, p *dryrun.Preview) error {
	if isJSON(cmd) {
		return printJSON(cmd, p)
	}
	p.Write(iocontext.GetIO(cmd.Context()).Out)
	return nil
}
