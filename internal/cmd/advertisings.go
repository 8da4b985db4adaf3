package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/dryrun"
	"github.com/cig-platform/backoffice-bff-client/internal/iocontext"
)

func newAdvertisingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "advertisings",
		Aliases: []string{"advertising", "ads", "a"},
		Short:   "Manage advertisings of a poultry",
	}

	cmd.AddCommand(newAdvertisingsCreateCmd())
	cmd.AddCommand(newAdvertisingsRemoveCmd())
	cmd.AddCommand(newAdvertisingsUpdatePriceCmd())
	cmd.AddCommand(newAdvertisingsAnswerCmd())

	return cmd
}

func newAdvertisingsCreateCmd() *cobra.Command {
	var (
		price      float64
		externalID string
	)

	cmd := &cobra.Command{
		Use:   "create <breeder-id> <poultry-id> --price <price>",
		Short: "Advertise a poultry for sale",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if price < 0 {
				return usageErrorf("--price must be >= 0")
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			advertising := api.Advertising{Price: api.FlexFloat(price), ExternalID: externalID}
			created, err := outcomeValue(s.client.Advertisings().Create(cmdContext(cmd), args[0], args[1], s.token, advertising))
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, created)
			}
			id := ""
			if created != nil {
				id = created.ID
			}
			return printAck(cmd, api.Ack{OK: true}, "Created", "advertising", id)
		}),
	}

	cmd.Flags().Float64Var(&price, "price", 0, "Asking price")
	cmd.Flags().StringVar(&externalID, "external-id", "", "External reference")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newAdvertisingsRemoveCmd() *cobra.Command {
	var (
		concurrency int64
		progress    bool
	)

	cmd := &cobra.Command{
		Use:     "remove <breeder-id> <poultry-id> <advertising-id>...",
		Aliases: []string{"rm"},
		Short:   "Remove one or more advertisings",
		Example: strings.TrimSpace(`
  cig-bff advertisings remove b-123 p-456 ad-1
  cig-bff advertisings remove b-123 p-456 ad-1 ad-2 ad-3 --concurrency 2
`),
		Args: cobra.MinimumNArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			breederID, poultryID, ids := args[0], args[1], args[2:]

			progressOut := iocontext.GetIO(cmd.Context()).ErrOut
			if !progress || isJSON(cmd) {
				progressOut = nil
			}
			results := runBulkOperation(cmdContext(cmd), ids, concurrency, progressOut, func(ctx context.Context, id string) error {
				_, err := outcomeValue(s.client.Advertisings().Remove(ctx, breederID, poultryID, id, s.token))
				return err
			})

			dryRun := dryrun.IsEnabled(cmd.Context())
			if isJSON(cmd) {
				if !dryRun {
					if err := printJSON(cmd, results); err != nil {
						return err
					}
				}
			} else {
				for _, r := range results {
					if r.Success {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed advertising %s\n", r.ID)
					} else if len(ids) > 1 && !errors.Is(r.err, dryrun.ErrSkipped) {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Failed to remove advertising %s: %s\n", r.ID, r.Error)
					}
				}
			}

			ok, failed := countResults(results)
			if failed == 0 {
				return nil
			}
			if len(ids) == 1 {
				return firstFailure(results)
			}
			return fmt.Errorf("removed %d of %d advertisings: %w", ok, len(ids), firstFailure(results))
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress on stderr")
	return cmd
}

func newAdvertisingsUpdatePriceCmd() *cobra.Command {
	var price float64

	cmd := &cobra.Command{
		Use:   "update-price <breeder-id> <poultry-id> <advertising-id> --price <price>",
		Short: "Change an advertising's price",
		Args:  cobra.ExactArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if price < 0 {
				return usageErrorf("--price must be >= 0")
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			ack, err := outcomeValue(s.client.Advertisings().UpdatePrice(cmdContext(cmd), args[0], args[1], args[2], s.token, price))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Updated price of", "advertising", args[2]+" to "+formatPrice(price))
		}),
	}

	cmd.Flags().Float64Var(&price, "price", 0, "New price")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newAdvertisingsAnswerCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "answer <breeder-id> <poultry-id> <advertising-id> <question-id> --content <text>",
		Short: "Answer a buyer's question",
		Args:  cobra.ExactArgs(4),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			content = strings.TrimSpace(content)
			if content == "" {
				return usageErrorf("--content must not be empty")
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			answer := api.AdvertisingQuestionAnswer{Content: content}
			ack, err := outcomeValue(s.client.Advertisings().AnswerQuestion(cmdContext(cmd), args[0], args[1], args[2], args[3], s.token, answer))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Answered", "question", args[3])
		}),
	}

	cmd.Flags().StringVar(&content, "content", "", "Answer text")
	flagAlias(cmd.Flags(), "content", "answer")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
