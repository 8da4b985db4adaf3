package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/config"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"not configured", fmt.Errorf("resolve: %w", config.ErrNotConfigured), exitAuth},
		{"unauthorized", &api.RemoteError{StatusCode: 401}, exitAuth},
		{"forbidden", &api.RemoteError{StatusCode: 403}, exitForbidden},
		{"not found", &api.RemoteError{StatusCode: 404}, exitNotFound},
		{"conflict", &api.RemoteError{StatusCode: 409}, exitUsage},
		{"validation", &api.RemoteError{StatusCode: 422}, exitUsage},
		{"rate limited", &api.RemoteError{StatusCode: 429}, exitRateLimited},
		{"server", &api.TransportError{StatusCode: 502, Err: api.ErrUnexpectedStatus}, exitServer},
		{"timeout", &api.TransportError{Err: context.DeadlineExceeded}, exitNetwork},
		{"canceled", &api.TransportError{Err: context.Canceled}, exitNetwork},
		{"field", &api.FieldError{Field: "files", Reason: "bad"}, exitUsage},
		{"usage", usageErrorf("--name is required"), exitUsage},
		{"cobra usage", errors.New(`required flag(s) "to" not set`), exitUsage},
		{"handled keeps code", &handledError{err: errors.New("x"), exitCode: exitServer}, exitServer},
		{"handled without code", &handledError{err: &api.RemoteError{StatusCode: 404}}, exitNotFound},
		{"generic", errors.New("boom"), exitGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestHandledErrorUnwrap(t *testing.T) {
	inner := &api.RemoteError{StatusCode: 404}
	err := &handledError{err: inner, exitCode: exitNotFound}
	assert.ErrorIs(t, err, errAlreadyHandled)
	assert.ErrorIs(t, err, inner)
}
