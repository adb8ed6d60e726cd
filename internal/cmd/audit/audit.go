// Package audit inspects authored gossip content offline: validation
// warnings, per-template instance-space sizes, and repeat-risk flags for
// templates whose variety cannot keep up with their spread rate.
package audit

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	entrypoint "github.com/louisbranch/rumormill/internal/platform/cmd"
	"github.com/louisbranch/rumormill/internal/services/gossip/assets"
	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	"github.com/louisbranch/rumormill/internal/services/gossip/domain"
)

// Config holds audit command configuration.
type Config struct {
	CatalogPath string `env:"RUMORMILL_AUDIT_CATALOG_PATH"`
	Format      string `env:"RUMORMILL_AUDIT_FORMAT" envDefault:"text"`
	// MinSpacePerRate is the required instance-space size per spread rate
	// point. A template with spread rate r and space below r*MinSpacePerRate
	// is flagged as a repeat risk.
	MinSpacePerRate uint64 `env:"RUMORMILL_AUDIT_MIN_SPACE_PER_RATE" envDefault:"20"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to a JSON gossip catalog (empty uses builtin content)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Report format: text or json")
	fs.Uint64Var(&cfg.MinSpacePerRate, "min-space-per-rate", cfg.MinSpacePerRate, "Required instance-space size per spread rate point")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TemplateReport is one template's audit result.
type TemplateReport struct {
	TemplateID string `json:"templateId"`
	Category   string `json:"category"`
	Tone       string `json:"tone"`
	SpreadRate int    `json:"spreadRate"`
	SpaceSize  uint64 `json:"spaceSize"`
	// RequiredSpace is SpreadRate * MinSpacePerRate.
	RequiredSpace uint64 `json:"requiredSpace"`
	RepeatRisk    bool   `json:"repeatRisk"`
}

// Report is the catalog-wide audit result.
type Report struct {
	TemplateCount int              `json:"templateCount"`
	TotalSpace    uint64           `json:"totalSpace"`
	RepeatRisks   int              `json:"repeatRisks"`
	Templates     []TemplateReport `json:"templates"`
	Warnings      []string         `json:"warnings,omitempty"`
	WithheldCount int              `json:"withheldCount"`
}

// BuildReport audits one content set.
func BuildReport(set assets.Set, minSpacePerRate uint64) (Report, error) {
	cat, warnings, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		return Report{}, fmt.Errorf("build gossip catalog: %w", err)
	}

	report := Report{WithheldCount: len(set.Templates) - cat.Len()}
	for _, warning := range warnings {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("template %s: %s", warning.TemplateID, warning.Message))
	}

	for _, tmpl := range cat.All() {
		space := tmpl.SpaceSize(set.Pools)
		required := uint64(tmpl.SpreadRate) * minSpacePerRate
		entry := TemplateReport{
			TemplateID:    tmpl.ID,
			Category:      string(tmpl.Category),
			Tone:          string(tmpl.Tone),
			SpreadRate:    tmpl.SpreadRate,
			SpaceSize:     space,
			RequiredSpace: required,
			RepeatRisk:    space < required,
		}
		if entry.RepeatRisk {
			report.RepeatRisks++
		}
		report.TotalSpace += space
		report.Templates = append(report.Templates, entry)
	}
	report.TemplateCount = len(report.Templates)
	return report, nil
}

// Render writes the report in the requested format.
func Render(w io.Writer, report Report, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "", "text":
		return renderText(w, report)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, report Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tCATEGORY\tTONE\tRATE\tSPACE\tREQUIRED\tRISK")
	for _, entry := range report.Templates {
		risk := ""
		if entry.RepeatRisk {
			risk = "REPEAT"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			entry.TemplateID, entry.Category, entry.Tone,
			entry.SpreadRate, entry.SpaceSize, entry.RequiredSpace, risk)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d templates, total space %d, %d repeat risks\n",
		report.TemplateCount, report.TotalSpace, report.RepeatRisks)
	if report.WithheldCount > 0 {
		fmt.Fprintf(w, "%d templates withheld by validation\n", report.WithheldCount)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

// Run builds and prints the audit report for the configured catalog.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAudit, func(context.Context) error {
		var (
			set assets.Set
			err error
		)
		if cfg.CatalogPath == "" {
			set = assets.Builtin()
		} else {
			set, err = assets.LoadFile(cfg.CatalogPath)
			if err != nil {
				return err
			}
		}
		if set.Pools == nil {
			set.Pools = domain.Pools{}
		}

		report, err := BuildReport(set, cfg.MinSpacePerRate)
		if err != nil {
			return err
		}
		return Render(os.Stdout, report, cfg.Format)
	})
}
