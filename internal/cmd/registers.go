package cmd

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/outfmt"
)

// registerTypes are the values accepted by --type.
var registerTypes = []string{
	api.RegisterTypeVaccination,
	api.RegisterTypeMeasurement,
	api.RegisterTypeDeworming,
	api.RegisterTypeTournament,
}

func newRegistersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registers",
		Aliases: []string{"register", "r"},
		Short:   "List and create poultry registers",
	}

	cmd.AddCommand(newRegistersListCmd())
	cmd.AddCommand(newRegistersCreateCmd())

	return cmd
}

func newRegistersListCmd() *cobra.Command {
	var registerType string

	cmd := &cobra.Command{
		Use:     "list <breeder-id> <poultry-id>",
		Aliases: []string{"ls"},
		Short:   "List a poultry's registers",
		Example: strings.TrimSpace(`
  cig-bff registers list b-123 p-456
  cig-bff registers list b-123 p-456 --type vacina
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveRegisterType(registerType)
			if err != nil {
				return err
			}
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			registers, err := listValue(cmd, s.client.Registers().List(cmdContext(cmd), args[0], args[1], s.token, resolved), "registers")
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, registers)
			}
			f := formatter(cmd)
			if len(registers) == 0 {
				f.Empty("No registers found")
				return nil
			}
			return writeRegisterTable(f, registers)
		}),
	}

	cmd.Flags().StringVar(&registerType, "type", "", "Filter by register type (fuzzy: vacina, torneio, ...)")
	return cmd
}

func writeRegisterTable(f *outfmt.Formatter, registers []api.PoultryRegister) error {
	f.StartTable("REGISTER", "TYPE", "DATE", "FILES", "DESCRIPTION")
	for _, r := range registers {
		date := ""
		if r.Date != nil {
			date = r.Date.Format(dateLayout)
		}
		f.Row(r.ID, r.RegisterType, date, itoa(len(r.Files)), truncate(r.Description, 40))
	}
	return f.EndTable()
}

func newRegistersCreateCmd() *cobra.Command {
	var (
		registerType, description, date string
		metadata                        []string
		files                           []string
	)

	cmd := &cobra.Command{
		Use:   "create <breeder-id> <poultry-id>",
		Short: "Create a register with optional attached files",
		Example: strings.TrimSpace(`
  cig-bff registers create b-123 p-456 --type torneio --description "1st place" --file certificate.pdf
  cig-bff registers create b-123 p-456 --type pesagem --metadata weight=3.2 --metadata unit=kg
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveRegisterType(registerType)
			if err != nil {
				return err
			}
			if resolved == "" {
				return usageErrorf("--type is required")
			}
			register := api.PoultryRegister{RegisterType: resolved, Description: description}
			if date != "" {
				t, err := time.Parse(dateLayout, date)
				if err != nil {
					return usageErrorf("invalid --date %q: use YYYY-MM-DD", date)
				}
				register.Date = &t
			}
			if register.Metadata, err = parseMetadata(metadata); err != nil {
				return err
			}
			attachments, err := readAttachments(files)
			if err != nil {
				return err
			}

			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			ack, err := outcomeValue(s.client.Registers().Create(cmdContext(cmd), args[0], args[1], s.token, register, attachments))
			if err != nil {
				return err
			}
			return printAck(cmd, ack, "Created", "register for poultry", args[1])
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&registerType, "type", "", "Register type (fuzzy: vacina, medicao, vermifugacao, torneio)")
	fs.StringVar(&description, "description", "", "Description")
	fs.StringVar(&date, "date", "", "Register date (YYYY-MM-DD)")
	fs.StringArrayVar(&metadata, "metadata", nil, "Metadata as KEY=VALUE; JSON values are decoded (repeatable)")
	fs.StringArrayVar(&files, "file", nil, "File to attach (repeatable)")
	flagAlias(fs, "file", "files")

	return cmd
}

// parseMetadata turns KEY=VALUE pairs into a map. Values that parse as JSON
// (numbers, booleans, objects) keep their type; anything else is a string.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, usageErrorf("invalid --metadata %q: use KEY=VALUE", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			out[key] = decoded
		} else {
			out[key] = value
		}
	}
	return out, nil
}

type foldedSource []string

func (s foldedSource) String(i int) string { return foldAccents(s[i]) }
func (s foldedSource) Len() int            { return len(s) }

// resolveRegisterType maps loose input like "vacina" or "torneio" to a
// register type. Exact case-insensitive matches win; ties are an error.
func resolveRegisterType(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	folded := foldAccents(input)
	for _, t := range registerTypes {
		if foldAccents(t) == folded {
			return t, nil
		}
	}

	matches := fuzzy.FindFrom(folded, foldedSource(registerTypes))
	if len(matches) == 0 {
		return "", usageErrorf("unknown register type %q (valid: %s)", input, strings.Join(registerTypes, ", "))
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		candidates := []string{registerTypes[matches[0].Index], registerTypes[matches[1].Index]}
		sort.Strings(candidates)
		return "", usageErrorf("ambiguous register type %q: %s", input, strings.Join(candidates, ", "))
	}
	return registerTypes[matches[0].Index], nil
}

var accentFolder = strings.NewReplacer(
	"Ç", "c", "ç", "c",
	"Ã", "a", "ã", "a", "Á", "a", "á", "a", "Â", "a", "â", "a",
	"É", "e", "é", "e", "Ê", "e", "ê", "e",
	"Í", "i", "í", "i",
	"Ó", "o", "ó", "o", "Õ", "o", "õ", "o",
)

// foldAccents lowercases s and strips the Portuguese accents used in register types.
func foldAccents(s string) string {
	return strings.ToLower(accentFolder.Replace(s))
}
