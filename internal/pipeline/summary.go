package pipeline

import (
	"git.home.luguber.info/inful/docversions/internal/config"
	"git.home.luguber.info/inful/docversions/internal/hooks"
)

// Summary is the reportable view of a Result.
type Summary struct {
	BuildID   string         `json:"build_id"`
	SessionID string         `json:"session_id"`
	SiteURL   string         `json:"site_url"`
	Theme     string         `json:"theme"`
	Hooks     map[string]int `json:"hooks"`
	Modules   []string       `json:"modules"`
	ExtraCSS  []string       `json:"extra_css"`
	ExtraJS   []string       `json:"extra_javascript"`
	Files     []FileSummary  `json:"files"`
}

// FileSummary describes one manifest entry.
type FileSummary struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// Summary builds the report for r. Every event in the vocabulary is listed,
// including those without handlers.
func (p *Pipeline) Summary(r *Result) Summary {
	s := Summary{
		BuildID:   r.Build.ID,
		SessionID: p.session.ID,
		SiteURL:   r.Build.SiteURL,
		Theme:     r.Build.Theme,
		Hooks:     make(map[string]int),
		Modules:   r.Config.HookPaths(),
		ExtraCSS:  r.Build.Extras.Paths(config.AssetCSS),
		ExtraJS:   r.Build.Extras.Paths(config.AssetJavaScript),
		Files:     []FileSummary{},
	}
	for _, ev := range hooks.Events() {
		s.Hooks[ev.String()] = r.Plugin.Hooks().Handlers(ev)
	}
	if r.Manifest != nil {
		for _, f := range r.Manifest.Files() {
			s.Files = append(s.Files, FileSummary{Source: f.SrcPath(), Dest: f.RelDest})
		}
	}
	return s
}
