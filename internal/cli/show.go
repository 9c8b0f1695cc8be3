package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/places"
	"github.com/prentissw/charted-roots/internal/ui"
	"github.com/prentissw/charted-roots/internal/vault"
)

var (
	showEdit bool
	showRaw  bool
)

// ShowResult is the JSON payload of a show query.
type ShowResult struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	File          string      `json:"file"`
	Sex           string      `json:"sex,omitempty"`
	BirthDate     string      `json:"birth_date,omitempty"`
	DeathDate     string      `json:"death_date,omitempty"`
	BirthPlace    string      `json:"birth_place,omitempty"`
	Occupation    string      `json:"occupation,omitempty"`
	ResearchLevel int         `json:"research_level"`
	Body          string      `json:"body,omitempty"`
	Events        []ShowEvent `json:"events,omitempty"`
	ReferencedBy  []ShowRef   `json:"referenced_by,omitempty"`
}

// ShowEvent is one event a shown person participates in.
type ShowEvent struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

// ShowRef is one inbound relationship reference.
type ShowRef struct {
	SourceID string `json:"source_id"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
}

var showCmd = &cobra.Command{
	Use:   "show <person>",
	Short: "Show a person note",
	Long: `Displays a person's recorded facts, the events they take part in,
the notes that reference them, and the rendered note body.

With --edit the note opens in your editor instead (the 'editor' config
setting, falling back to $EDITOR). With --raw the body is printed
unrendered.

Examples:
  cr show "Harold Prentiss"
  cr show p-harold --edit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		id, err := resolvePersonID(v, args[0])
		if err != nil {
			return handleError(ErrPersonNotFound, err, "")
		}
		rec := v.PersonByID(id)
		if rec == nil {
			return handleErrorMsg(ErrPersonNotFound, fmt.Sprintf("no person with cr_id %s", id), "")
		}
		relPath, _ := filepath.Rel(v.Root, rec.Path)

		if showEdit {
			opened := vault.OpenInEditor(getConfig().GetEditor(), rec.Path)
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"file": relPath, "opened": opened}, nil)
				return nil
			}
			if !opened {
				return handleErrorMsg(ErrInternal, "no editor configured", "Set 'editor' in config or $EDITOR")
			}
			return nil
		}

		result := buildShowResult(v, rec, relPath)

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		printShowResult(result, rec)
		return nil
	},
}

func buildShowResult(v *vault.Vault, rec *note.PersonRecord, relPath string) ShowResult {
	result := ShowResult{
		ID:            rec.CrID,
		Name:          rec.Name,
		File:          relPath,
		Sex:           string(rec.Sex),
		BirthDate:     rec.BirthDate,
		DeathDate:     rec.DeathDate,
		BirthPlace:    rec.BirthPlace,
		Occupation:    rec.Occupation,
		ResearchLevel: int(rec.ResearchLevel),
		Body:          rec.Body,
	}

	db, err := openIndex(v)
	if err != nil {
		// The note itself is still displayable without the index.
		return result
	}
	defer db.Close()

	hierarchy := places.NewHierarchy(v.PlaceModels())

	if events, err := db.EventsForPerson(rec.CrID); err == nil {
		for _, e := range events {
			ev := ShowEvent{ID: e.CrID, Type: e.EventType}
			if e.Date != nil {
				ev.Date = *e.Date
			}
			if e.PlaceID != nil {
				ev.Place = *e.PlaceID
				if full := hierarchy.FullName(*e.PlaceID); full != "" {
					ev.Place = full
				}
			}
			result.Events = append(result.Events, ev)
		}
	}
	if refs, err := db.ReferencesTo(rec.CrID); err == nil {
		for _, r := range refs {
			result.ReferencedBy = append(result.ReferencedBy, ShowRef{
				SourceID: r.SourceID,
				Kind:     r.Kind,
				File:     r.FilePath,
			})
		}
	}
	return result
}

func printShowResult(result ShowResult, rec *note.PersonRecord) {
	fmt.Println(ui.Header(result.Name))
	fmt.Println(ui.Muted.Render(result.File))
	fmt.Println()

	t := ui.NewTable(2)
	addFact := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			t.AddRow(ui.Muted.Render(label), value)
		}
	}
	addFact("cr_id", result.ID)
	addFact("Sex", result.Sex)
	addFact("Born", result.BirthDate)
	addFact("Died", result.DeathDate)
	addFact("Birthplace", result.BirthPlace)
	addFact("Occupation", result.Occupation)
	addFact("Research", fmt.Sprintf("%d/6", result.ResearchLevel))
	fmt.Print(t.String())

	if len(result.Events) > 0 {
		fmt.Println()
		fmt.Println(ui.Header("Events"))
		for _, e := range result.Events {
			line := e.Type
			if e.Date != "" {
				line += " " + e.Date
			}
			if e.Place != "" {
				line += " " + ui.Muted.Render("at "+e.Place)
			}
			fmt.Println("  " + line)
		}
	}

	if len(result.ReferencedBy) > 0 {
		fmt.Println()
		fmt.Println(ui.Header("Referenced by"))
		for _, r := range result.ReferencedBy {
			fmt.Printf("  %s %s\n", ui.FilePath(r.File), ui.Muted.Render("as "+r.Kind))
		}
	}

	body := strings.TrimSpace(result.Body)
	if body == "" {
		return
	}
	fmt.Println()
	if showRaw {
		fmt.Println(body)
		return
	}
	d := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(body, d.AvailableWidth(0))
	if err != nil {
		fmt.Println(body)
		return
	}
	fmt.Print(rendered)
}

func init() {
	showCmd.Flags().BoolVar(&showEdit, "edit", false, "Open the note in your editor")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the note body without rendering")
	rootCmd.AddCommand(showCmd)
}
