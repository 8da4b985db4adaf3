package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
)

func newPoultriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "poultries",
		Aliases: []string{"poultry", "p"},
		Short:   "Manage a breeder's poultries",
	}

	cmd.AddCommand(newPoultriesListCmd())
	cmd.AddCommand(newPoultriesGetCmd())
	cmd.AddCommand(newPoultriesCreateCmd())
	cmd.AddCommand(newPoultriesUpdateCmd())
	cmd.AddCommand(newPoultriesTransferCmd())

	return cmd
}

func newPoultriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list <breeder-id>",
		Aliases: []string{"ls"},
		Short:   "List poultries grouped by category",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			groups, err := listValue(cmd, s.client.Poultries().List(cmdContext(cmd), args[0], s.token), "poultries")
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, groups)
			}

			f := formatter(cmd)
			if groups.Total() == 0 {
				f.Empty("No poultries found")
				return nil
			}
			f.StartTable("GROUP", "ID", "NAME", "GENDER", "TAG", "FOR SALE")
			for _, g := range []struct {
				name  string
				birds []api.Poultry
			}{
				{"reproductives", groups.Reproductives},
				{"matrix", groups.Matrix},
				{"male", groups.Male},
				{"female", groups.Female},
			} {
				for _, p := range g.birds {
					f.Row(g.name, p.ID, p.Name, p.Gender, p.Tag, yesNo(p.ForSale))
				}
			}
			return f.EndTable()
		}),
	}
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "yes"
	default:
		return "no"
	}
}

// poultryView is the output of "poultries get", optionally with the
// registers fetched alongside.
type poultryView struct {
	*api.GetPoultryResponse
	Registers []api.PoultryRegister `json:"registers,omitempty"`
}

func newPoultriesGetCmd() *cobra.Command {
	var withRegisters bool

	cmd := &cobra.Command{
		Use:     "get <breeder-id> <poultry-id>",
		Aliases: []string{"g"},
		Short:   "Get a poultry with images, registers and advertisings",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			view, err := fetchPoultry(cmdContext(cmd), s, args[0], args[1], withRegisters)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, view)
			}

			p := view.Poultry
			f := formatter(cmd)
			f.Field("ID", p.ID)
			f.Field("Name", p.Name)
			f.Field("Type", p.Type)
			f.Field("Gender", p.Gender)
			f.Field("Tag", p.Tag)
			if p.Birth != nil {
				f.Field("Born", p.Birth.Format(dateLayout))
			}
			if p.Colors != nil {
				f.Field("Plumage", p.Colors.Plumage)
				f.Field("Shins", p.Colors.Shins)
				f.Field("Eyes", p.Colors.Eyes)
			}
			f.Field("For sale", yesNo(p.ForSale))
			f.Field("Description", p.Description)
			if len(view.Advertisings) > 0 {
				f.Println()
				f.StartTable("ADVERTISING", "PRICE", "FINISHED")
				for _, a := range view.Advertisings {
					f.Row(a.ID, formatPrice(float64(a.Price)), yesNo(&a.Finished))
				}
				if err := f.EndTable(); err != nil {
					return err
				}
			}
			if len(view.Registers) > 0 {
				f.Println()
				return writeRegisterTable(f, view.Registers)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&withRegisters, "with-registers", false, "Also fetch the poultry's registers")
	return cmd
}

// fetchPoultry gets the poultry and, when asked, its registers in parallel.
func fetchPoultry(ctx context.Context, s *session, breederID, poultryID string, withRegisters bool) (*poultryView, error) {
	var (
		detail    *api.GetPoultryResponse
		registers []api.PoultryRegister
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = outcomeValue(s.client.Poultries().Get(ctx, breederID, poultryID, s.token))
		return err
	})
	if withRegisters {
		g.Go(func() error {
			var err error
			registers, err = outcomeValue(s.client.Registers().List(ctx, breederID, poultryID, s.token, ""))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &poultryView{GetPoultryResponse: detail, Registers: registers}, nil
}

// poultryFlags are the poultry fields settable on create and update.
type poultryFlags struct {
	poultry api.Poultry
	colors  api.PoultryColors
	birth   string
	forSale bool
	alive   bool
	images  []string
}

func (pf *poultryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&pf.poultry.Name, "name", "", "Name")
	fs.StringVar(&pf.poultry.Type, "type", "", "Breed or type")
	fs.StringVar(&pf.birth, "birth-date", "", "Birth date (YYYY-MM-DD)")
	fs.StringVar(&pf.poultry.Gender, "gender", "", "Gender (MALE or FEMALE)")
	fs.StringVar(&pf.poultry.GenderCategory, "gender-category", "", "Gender category")
	fs.StringVar(&pf.poultry.Description, "description", "", "Description")
	fs.StringVar(&pf.poultry.Video, "video", "", "Video URL")
	fs.StringVar(&pf.poultry.Register, "register", "", "Registry number")
	fs.StringVar(&pf.poultry.Tag, "tag", "", "Tag")
	fs.StringVar(&pf.poultry.CrestType, "crest-type", "", "Crest type")
	fs.StringVar(&pf.poultry.DewlapType, "dewlap-type", "", "Dewlap type")
	fs.StringVar(&pf.poultry.TailType, "tail-type", "", "Tail type")
	fs.StringVar(&pf.colors.Plumage, "plumage", "", "Plumage color")
	fs.StringVar(&pf.colors.Shins, "shins", "", "Shins color")
	fs.StringVar(&pf.colors.Eyes, "eyes", "", "Eyes color")
	fs.BoolVar(&pf.forSale, "for-sale", false, "Mark the poultry for sale")
	fs.BoolVar(&pf.alive, "alive", true, "Mark the poultry alive or dead")
	fs.StringArrayVar(&pf.images, "image", nil, "Image file (repeatable)")
	flagAlias(fs, "image", "images")
}

// build returns the poultry and its image attachments.
func (pf *poultryFlags) build(cmd *cobra.Command) (api.Poultry, []api.File, error) {
	p := pf.poultry
	if pf.colors != (api.PoultryColors{}) {
		colors := pf.colors
		p.Colors = &colors
	}
	if pf.birth != "" {
		t, err := time.Parse(dateLayout, pf.birth)
		if err != nil {
			return api.Poultry{}, nil, usageErrorf("invalid --birth-date %q: use YYYY-MM-DD", pf.birth)
		}
		p.Birth = &t
	}
	p.ForSale = optionalBool(cmd, "for-sale", pf.forSale)
	p.IsAlive = optionalBool(cmd, "alive", pf.alive)
	files, err := readAttachments(pf.images)
	if err != nil {
		return api.Poultry{}, nil, err
	}
	return p, files, nil
}

func newPoultriesCreateCmd() *cobra.Command {
	var pf poultryFlags

	cmd := &cobra.Command{
		Use:   "create <breeder-id>",
		Short: "Create a poultry",
		Example: strings.TrimSpace(`
  cig-bff poultries create b-123 --name Galo --gender MALE --plumage black --image galo.jpg
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			poultry, files, err := pf.build(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(poultry.Name) == "" {
				return usageErrorf("--name is required")
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			resp, err := outcomeValue(s.client.Poultries().Create(cmdContext(cmd), args[0], s.token, poultry, files))
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp)
			}
			return printAck(cmd, api.Ack{OK: resp.OK}, "Created", "poultry", resp.Poultry.ID)
		}),
	}

	pf.register(cmd)
	return cmd
}

func newPoultriesUpdateCmd() *cobra.Command {
	var (
		pf           poultryFlags
		removeImages []string
	)

	cmd := &cobra.Command{
		Use:   "update <breeder-id> <poultry-id>",
		Short: "Update a poultry",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			poultry, files, err := pf.build(cmd)
			if err != nil {
				return err
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			update := api.PoultryUpdate{Poultry: poultry, Images: files, DeletedImageIDs: splitList(removeImages)}
			ack, err := outcomeValue(s.client.Poultries().Update(cmdContext(cmd), args[0], args[1], s.token, update))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Updated", "poultry", args[1])
		}),
	}

	pf.register(cmd)
	cmd.Flags().StringSliceVar(&removeImages, "remove-image", nil, "Image IDs to delete")
	return cmd
}

func newPoultriesTransferCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "transfer <breeder-id> <poultry-id> --to <breeder-id>",
		Short: "Transfer a poultry to another breeder",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			ack, err := outcomeValue(s.client.Poultries().Transfer(cmdContext(cmd), args[0], args[1], target, s.token))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Transferred", "poultry", args[1]+" to "+target)
		}),
	}

	cmd.Flags().StringVar(&target, "to", "", "Target breeder ID")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
