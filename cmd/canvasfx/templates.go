package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ideamans/go-l10n"

	"github.com/user/canvasfx/pkg/adapters/osfilesystem"
	"github.com/user/canvasfx/pkg/presets"
	"github.com/user/canvasfx/pkg/template"
)

// PresetsCmd lists the built-in presets.
type PresetsCmd struct{}

// TemplateCmd groups the template subcommands.
type TemplateCmd struct {
	Save   TemplateSaveCmd   `cmd:"" help:"Save a look as a template."`
	List   TemplateListCmd   `cmd:"" help:"List saved templates, newest first."`
	Show   TemplateShowCmd   `cmd:"" help:"Print a template as YAML."`
	Status TemplateStatusCmd `cmd:"" help:"Activate or deactivate a template."`
	Delete TemplateDeleteCmd `cmd:"" help:"Delete a template."`
}

// StoreFlags locate the template store. They are embedded in every
// template subcommand.
type StoreFlags struct {
	Store   string `help:"Template store directory (default: ./templates)."`
	Config  string `short:"c" help:"YAML config file."`
	EnvFile string `default:".env" help:"Dotenv file with CANVASFX_* overrides."`
}

func (f StoreFlags) open() (*template.FileStore, error) {
	cfg, err := loadConfig(f.Config, f.EnvFile)
	if err != nil {
		return nil, err
	}
	if f.Store != "" {
		cfg.TemplateDir = f.Store
	}
	return template.NewFileStore(osfilesystem.New(), cfg.TemplateDir), nil
}

// TemplateSaveCmd saves a template either from a create request document
// or from effects and background documents.
type TemplateSaveCmd struct {
	StoreFlags `embed:""`

	Name        string `arg:"" optional:"" help:"Template name."`
	From        string `help:"JSON create request (name, imageEffects, backgroundData)."`
	Description string `help:"Template description."`
	Effects     string `short:"e" help:"Effects document (JSON or YAML)."`
	Background  string `short:"b" help:"Background document (JSON or YAML)."`
	Preset      string `short:"p" help:"Effect preset applied on top of the effects."`
	Active      bool   `help:"Save the template as active."`
}

// Run executes the template save command.
func (cmd *TemplateSaveCmd) Run() error {
	store, err := cmd.open()
	if err != nil {
		return err
	}

	var t template.Template
	if cmd.From != "" {
		data, err := os.ReadFile(cmd.From)
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		if t, err = template.DecodeCreateRequest(data); err != nil {
			return err
		}
	} else {
		if t, err = cmd.fromDocuments(); err != nil {
			return err
		}
	}

	saved, err := store.Create(t)
	if err != nil {
		return err
	}
	fmt.Println(l10n.F("Template %s saved as %s", saved.Name, saved.ID))
	return nil
}

// fromDocuments builds a create request from the document flags and runs
// it through the same decoding as a request file.
func (cmd *TemplateSaveCmd) fromDocuments() (template.Template, error) {
	if cmd.Name == "" {
		return template.Template{}, fmt.Errorf("%w: %s", template.ErrInvalid, l10n.T("a name is required"))
	}

	cfg, err := loadConfig(cmd.Config, cmd.EnvFile)
	if err != nil {
		return template.Template{}, err
	}
	cfg.EffectsPath = cmd.Effects
	cfg.BackgroundPath = cmd.Background

	fx, bg, err := cfg.LoadDocuments(osfilesystem.New())
	if err != nil {
		return template.Template{}, err
	}
	if cmd.Preset != "" {
		if fx, err = presets.Apply(cmd.Preset, fx); err != nil {
			return template.Template{}, err
		}
	}

	status := template.StatusInactive
	if cmd.Active {
		status = template.StatusActive
	}
	body, err := json.Marshal(map[string]any{
		"name":           cmd.Name,
		"description":    cmd.Description,
		"imageEffects":   fx,
		"backgroundData": bg,
		"status":         status,
	})
	if err != nil {
		return template.Template{}, fmt.Errorf("encode request: %w", err)
	}
	return template.DecodeCreateRequest(body)
}

// TemplateListCmd lists templates.
type TemplateListCmd struct {
	StoreFlags `embed:""`
}

// Run executes the template list command.
func (cmd *TemplateListCmd) Run() error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println(l10n.T("No templates saved"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l10n.T("ID"), l10n.T("Status"), l10n.T("Name"), l10n.T("Created"))
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Name, t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// TemplateShowCmd prints one template.
type TemplateShowCmd struct {
	StoreFlags `embed:""`

	ID string `arg:"" help:"Template ID."`
}

// Run executes the template show command.
func (cmd *TemplateShowCmd) Run() error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	t, err := store.Get(cmd.ID)
	if err != nil {
		return err
	}
	out, err := t.ExportYAML()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// TemplateStatusCmd changes the status of a template.
type TemplateStatusCmd struct {
	StoreFlags `embed:""`

	ID     string `arg:"" help:"Template ID."`
	Status string `arg:"" enum:"active,inactive" help:"New status (active or inactive)."`
}

// Run executes the template status command.
func (cmd *TemplateStatusCmd) Run() error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	t, err := store.UpdateStatus(cmd.ID, template.Status(cmd.Status))
	if err != nil {
		return err
	}
	fmt.Println(l10n.F("Template %s is now %s", t.ID, t.Status))
	return nil
}

// TemplateDeleteCmd deletes a template.
type TemplateDeleteCmd struct {
	StoreFlags `embed:""`

	ID string `arg:"" help:"Template ID."`
}

// Run executes the template delete command.
func (cmd *TemplateDeleteCmd) Run() error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	if err := store.Delete(cmd.ID); err != nil {
		return err
	}
	fmt.Println(l10n.F("Template %s deleted", cmd.ID))
	return nil
}
