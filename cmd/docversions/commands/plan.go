package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docversions/internal/config"
	"git.home.luguber.info/inful/docversions/internal/pipeline"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Format string `short:"f" enum:"text,json" default:"text" help:"Output format (text, json)"`
}

func (c *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return RunPlan(context.Background(), g, cfg, c.Format)
}

// RunPlan runs the pipeline once and writes its summary in format.
func RunPlan(ctx context.Context, g *Global, cfg *config.Config, format string) error {
	p := pipeline.NewPipeline(pipeline.WithLogger(g.logger()))
	defer func() { _ = p.Close() }()

	res, err := p.Run(ctx, cfg)
	if err != nil {
		return err
	}
	return writeSummary(g.out(), p.Summary(res), format)
}

func writeSummary(w io.Writer, s pipeline.Summary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	events := make([]string, 0, len(s.Hooks))
	for ev, n := range s.Hooks {
		events = append(events, fmt.Sprintf("%s=%d", ev, n))
	}
	sort.Strings(events)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Build:\t%s\n", s.BuildID)
	_, _ = fmt.Fprintf(tw, "Site URL:\t%s\n", s.SiteURL)
	_, _ = fmt.Fprintf(tw, "Theme:\t%s\n", s.Theme)
	_, _ = fmt.Fprintf(tw, "Hooks:\t%s\n", strings.Join(events, " "))
	_, _ = fmt.Fprintf(tw, "Extra CSS:\t%s\n", strings.Join(s.ExtraCSS, " "))
	_, _ = fmt.Fprintf(tw, "Extra JavaScript:\t%s\n", strings.Join(s.ExtraJS, " "))
	_, _ = fmt.Fprintf(tw, "Files:\t%d\n", len(s.Files))
	for _, f := range s.Files {
		_, _ = fmt.Fprintf(tw, "  %s\t-> %s\n", f.Source, f.Dest)
	}
	return tw.Flush()
}
