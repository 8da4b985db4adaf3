package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
)

const dealArgs = "<breeder-id> <poultry-id> <advertising-id> <deal-id>"

func newDealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deals",
		Aliases: []string{"deal", "d"},
		Short:   "Move deals through their lifecycle",
	}

	cmd.AddCommand(newDealTransitionCmd("confirm", "Confirm a deal", "Confirmed"))
	cmd.AddCommand(newDealsCancelCmd())
	cmd.AddCommand(newDealTransitionCmd("finish", "Mark a deal as finished", "Finished"))

	return cmd
}

func dealRef(args []string) api.DealRef {
	return api.DealRef{
		BreederID:     args[0],
		PoultryID:     args[1],
		AdvertisingID: args[2],
		DealID:        args[3],
	}
}

func newDealTransitionCmd(action, short, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " " + dealArgs,
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			deal := dealRef(args)
			var o api.Outcome[api.Ack]
			switch action {
			case "confirm":
				o = s.client.Deals().Confirm(cmdContext(cmd), deal, s.token)
			default:
				o = s.client.Deals().Finish(cmdContext(cmd), deal, s.token)
			}
			ack, err := outcomeValue(o)
			if err != nil {
				return err
			}
			return printAck(cmd, ack, verb, "deal", deal.DealID)
		}),
	}
}

func newDealsCancelCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel " + dealArgs + " --reason <text>",
		Short: "Cancel a deal",
		Args:  cobra.ExactArgs(4),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			reason = strings.TrimSpace(reason)
			if reason == "" {
				return usageErrorf("--reason must not be empty")
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			deal := dealRef(args)
			ack, err := outcomeValue(s.client.Deals().Cancel(cmdContext(cmd), deal, s.token, reason))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Cancelled", "deal", deal.DealID)
		}),
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the deal is cancelled")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}
