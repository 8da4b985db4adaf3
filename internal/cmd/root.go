package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/debug"
	"github.com/cig-platform/backoffice-bff-client/internal/dryrun"
	"github.com/cig-platform/backoffice-bff-client/internal/iocontext"
	"github.com/cig-platform/backoffice-bff-client/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output    string
	JQ        string
	Compact   bool
	Debug     bool
	LogFormat string
	Timeout   time.Duration
	URL       string
	Token     string
	Profile   string
	DotEnv    string
	DryRun    bool
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees stale values.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:    defaultOutput(),
		LogFormat: debug.FormatText,
		Timeout:   api.DefaultTimeout,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("CIG_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "cig-bff",
		Short:              "Client for the CIG backoffice BFF",
		Long:               "Manage breeders, poultries, registers, advertisings and deals through the backoffice BFF.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // enhanceUnknownError suggests instead
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return usageErrorf("%v", err)
			}
			if flags.JQ != "" && mode == outfmt.Text {
				if flagOrAliasChanged(cmd, "output") {
					return usageErrorf("--jq requires --output json or jsonl")
				}
				mode = outfmt.JSON
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			if flags.JQ != "" {
				ctx = outfmt.WithQuery(ctx, flags.JQ)
			}

			ioStreams := iocontext.GetIO(ctx)
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			if flags.Timeout < 0 {
				return usageErrorf("--timeout must be >= 0")
			}

			slogger := debug.NewLogger(ioStreams.ErrOut, flags.Debug, flags.LogFormat)
			setDefaultLogger(slogger)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.URL, "url", "", "BFF base URL (env CIG_BFF_URL)")
	pf.StringVar(&flags.Token, "token", "", "Session token sent as X-Cig-Token (env CIG_TOKEN)")
	pf.StringVar(&flags.Profile, "profile", "", "Keyring profile to use (env CIG_PROFILE)")
	pf.StringVar(&flags.DotEnv, "env-file", "", "Path of the .env file to read (default ./.env)")
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env CIG_OUTPUT)")
	pf.StringVar(&flags.JQ, "jq", "", "jq expression applied to JSON output")
	pf.BoolVar(&flags.Compact, "compact", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Debug log format: text|json")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without sending them")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "jq", "query")
	flagAlias(pf, "compact", "cj")
	flagAlias(pf, "dry-run", "dr")

	root.AddCommand(newBreedersCmd())
	root.AddCommand(newPoultriesCmd())
	root.AddCommand(newRegistersCmd())
	root.AddCommand(newAdvertisingsCmd())
	root.AddCommand(newDealsCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newHealthCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		parent := root
		if targetCmd != nil {
			parent = targetCmd
		}
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		seen := make(map[string]bool)
		var flagNames []string
		addFlags := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				for _, name := range []string{"--" + f.Name, shorthand(f)} {
					if name != "" && !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
				}
			})
		}
		helpCmd := "cig-bff --help"
		if targetCmd != nil {
			addFlags(targetCmd.Flags())
			addFlags(targetCmd.InheritedFlags())
			helpCmd = targetCmd.CommandPath() + " --help"
		} else {
			addFlags(root.PersistentFlags())
		}
		if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

func shorthand(f *pflag.Flag) string {
	if f.Shorthand == "" {
		return ""
	}
	return "-" + f.Shorthand
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// shorthand errors look like "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimRight(rest[:end], ".,;:!?\"'")
}
