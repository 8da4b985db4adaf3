package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
)

const dateLayout = "2006-01-02"

func newBreedersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "breeders",
		Aliases: []string{"breeder", "b"},
		Short:   "View and update breeders",
	}

	cmd.AddCommand(newBreedersGetCmd())
	cmd.AddCommand(newBreedersUpdateCmd())

	return cmd
}

func newBreedersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <breeder-id>",
		Aliases: []string{"g"},
		Short:   "Get a breeder with its images and contacts",
		Example: strings.TrimSpace(`
  cig-bff breeders get b-123
  cig-bff breeders get b-123 -o json --jq '.breeder.contacts'
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			resp, err := outcomeValue(s.client.Breeders().Get(cmdContext(cmd), args[0], s.token))
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, resp)
			}

			b := resp.Breeder
			f := formatter(cmd)
			f.Field("ID", b.ID)
			f.Field("Name", b.Name)
			f.Field("Code", b.Code)
			f.Field("Description", b.Description)
			if b.Address != nil {
				f.Field("Address", formatAddress(*b.Address))
			}
			if b.FoundationDate != nil {
				f.Field("Founded", b.FoundationDate.Format(dateLayout))
			}
			f.Field("Video", b.MainVideo)
			if len(b.Contacts) > 0 {
				f.Println()
				f.StartTable("CONTACT", "TYPE", "VALUE")
				for _, c := range b.Contacts {
					f.Row(c.ID, c.Type, c.Value)
				}
				if err := f.EndTable(); err != nil {
					return err
				}
			}
			if len(b.Images) > 0 {
				f.Println()
				f.StartTable("IMAGE", "URL")
				for _, img := range b.Images {
					f.Row(img.ID, img.ImageURL)
				}
				return f.EndTable()
			}
			return nil
		}),
	}
}

func formatAddress(a api.Address) string {
	var parts []string
	street := strings.TrimSpace(a.Street)
	if street != "" && a.Number != 0 {
		street = fmt.Sprintf("%s, %d", street, a.Number)
	}
	for _, p := range []string{street, a.City, a.Province, a.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

func newBreedersUpdateCmd() *cobra.Command {
	var (
		name, description, code, video, founded string
		address                                  api.Address
		active                                   bool
		images, removeImages, removeContacts     []string
		contacts                                 []string
	)

	cmd := &cobra.Command{
		Use:     "update <breeder-id>",
		Aliases: []string{"u"},
		Short:   "Update breeder fields, images and contacts",
		Long:    "Sends a multipart PATCH. Only the flags given are changed.",
		Example: strings.TrimSpace(`
  # Rename and add two gallery images
  cig-bff breeders update b-123 --name "Farm A" --image a.png --image b.png

  # Replace contacts and remove an old image
  cig-bff breeders update b-123 --contact PHONE=5581999999999 --remove-image img-9
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			update := api.BreederUpdate{
				Breeder: api.Breeder{
					Name:        name,
					Description: description,
					Code:        code,
					MainVideo:   video,
					Active:      optionalBool(cmd, "active", active),
				},
				RemovedImageIDs:   splitList(removeImages),
				RemovedContactIDs: splitList(removeContacts),
			}
			if address != (api.Address{}) {
				update.Breeder.Address = &address
			}
			if founded != "" {
				t, err := time.Parse(dateLayout, founded)
				if err != nil {
					return usageErrorf("invalid --foundation-date %q: use YYYY-MM-DD", founded)
				}
				update.Breeder.FoundationDate = &t
			}
			for _, raw := range contacts {
				contact, err := parseContact(raw)
				if err != nil {
					return err
				}
				update.Contacts = append(update.Contacts, contact)
			}
			files, err := readAttachments(images)
			if err != nil {
				return err
			}
			update.NewImages = files

			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			ack, err := outcomeValue(s.client.Breeders().Update(cmdContext(cmd), args[0], s.token, update))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Updated", "breeder", args[0])
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&name, "name", "", "Breeder name")
	fs.StringVar(&description, "description", "", "Description")
	fs.StringVar(&code, "code", "", "Breeder code")
	fs.StringVar(&video, "main-video", "", "Main video URL")
	fs.StringVar(&founded, "foundation-date", "", "Foundation date (YYYY-MM-DD)")
	fs.BoolVar(&active, "active", false, "Mark the breeder active or inactive")
	fs.StringVar(&address.Street, "street", "", "Street")
	fs.IntVar(&address.Number, "number", 0, "Street number")
	fs.StringVar(&address.City, "city", "", "City")
	fs.StringVar(&address.Province, "province", "", "Province")
	fs.StringVar(&address.ZipCode, "zipcode", "", "Zip code")
	fs.StringArrayVar(&images, "image", nil, "Image file to add (repeatable)")
	fs.StringSliceVar(&removeImages, "remove-image", nil, "Image IDs to delete")
	fs.StringSliceVar(&removeContacts, "remove-contact", nil, "Contact IDs to delete")
	fs.StringArrayVar(&contacts, "contact", nil, "Contact as TYPE=VALUE (repeatable)")
	flagAlias(fs, "image", "images")

	return cmd
}

// parseContact parses TYPE=VALUE.
func parseContact(raw string) (api.BreederContact, error) {
	kind, value, ok := strings.Cut(raw, "=")
	kind, value = strings.TrimSpace(kind), strings.TrimSpace(value)
	if !ok || kind == "" || value == "" {
		return api.BreederContact{}, usageErrorf("invalid --contact %q: use TYPE=VALUE", raw)
	}
	return api.BreederContact{Type: strings.ToUpper(kind), Value: value}, nil
}
