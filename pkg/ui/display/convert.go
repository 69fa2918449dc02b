package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solitary-project/forge/pkg/style"
	"github.com/solitary-project/forge/pkg/types"
)

// FromResult converts a known command result into a View. The second
// return is false for result types display does not know.
func FromResult(result interface{}) (*View, bool) {
	switch r := result.(type) {
	case *types.BuildResult:
		return FromBuild(r), true
	case *types.ValidateResult:
		return FromValidate(r), true
	case *types.CleanResult:
		return FromClean(r), true
	case *types.ListPluginsResult:
		return FromListPlugins(r), true
	case *types.ListTemplatesResult:
		return FromListTemplates(r), true
	case *types.InitResult:
		return FromInit(r), true
	}
	return nil, false
}

// FromBuild lays out plugins, written outputs and failures of a build.
func FromBuild(r *types.BuildResult) *View {
	v := &View{Title: "build", DryRun: r.DryRun}
	if r.Environment != "" && r.Environment != "base" {
		v.Title += " [" + r.Environment + "]"
	}

	plugins := Section{Title: "Plugins", Empty: "No plugins resolved"}
	for _, p := range r.Plugins {
		plugins.Items = append(plugins.Items, Item{
			Status: style.StatusOK,
			Label:  p.Name,
			Detail: fmt.Sprintf("%s @ %s", p.RequestedVersion, shortRevision(p.ResolvedVersion)),
		})
	}
	for _, f := range r.PluginFailures {
		plugins.Items = append(plugins.Items, Item{Status: style.StatusFailed, Label: f.Name, Detail: f.Message()})
	}

	outputs := Section{Title: "Outputs", Empty: "Nothing rendered"}
	for _, w := range r.Written {
		status := style.StatusWritten
		switch {
		case w.Unchanged:
			status = style.StatusUnchanged
		case !w.Written:
			status = style.StatusPlanned
		}
		detail := w.Template + " from " + w.Plugin
		if w.Generator != "" {
			detail += " (" + w.Generator + ")"
		}
		outputs.Items = append(outputs.Items, Item{Status: status, Label: w.Path, Detail: detail})
	}
	for _, f := range r.RenderFailures {
		outputs.Items = append(outputs.Items, Item{Status: style.StatusFailed, Label: f.Task.Output, Detail: f.Message()})
	}

	v.Sections = []Section{plugins, outputs}
	v.Summary = fmt.Sprintf("%d written, %d failed", countWritten(r.Written), len(r.RenderFailures)+len(r.PluginFailures))
	if r.DryRun {
		v.Summary = fmt.Sprintf("dry run: %d would be written", len(r.Written))
	}
	return v
}

func countWritten(files []types.WrittenFile) int {
	n := 0
	for _, f := range files {
		if f.Written && !f.Unchanged {
			n++
		}
	}
	return n
}

// FromValidate groups findings by validator, in first-seen order.
func FromValidate(r *types.ValidateResult) *View {
	v := &View{Title: "validate"}
	index := map[string]int{}
	for _, f := range r.Findings {
		i, ok := index[f.Validator]
		if !ok {
			i = len(v.Sections)
			index[f.Validator] = i
			v.Sections = append(v.Sections, Section{Title: f.Validator})
		}
		status := style.StatusWarning
		if f.Severity == types.SeverityError {
			status = style.StatusFailed
		}
		v.Sections[i].Items = append(v.Sections[i].Items, Item{Status: status, Label: f.Message})
	}
	if r.Valid() {
		v.Summary = fmt.Sprintf("valid (%d warnings)", len(r.Warnings()))
	} else {
		v.Summary = fmt.Sprintf("%d errors, %d warnings", len(r.Errors()), len(r.Warnings()))
	}
	return v
}

// FromClean lists removed cache entries.
func FromClean(r *types.CleanResult) *View {
	section := Section{Title: "Removed", Empty: "Nothing to remove"}
	for _, name := range r.Removed {
		section.Items = append(section.Items, Item{Status: style.StatusOK, Label: name})
	}
	return &View{Title: "clean", Sections: []Section{section}, Summary: r.CacheRoot}
}

// FromListPlugins lists cache directories with their revisions.
func FromListPlugins(r *types.ListPluginsResult) *View {
	section := Section{Title: "Cached plugins", Empty: "Cache is empty"}
	for _, p := range r.Plugins {
		item := Item{Status: style.StatusOK, Label: p.Name, Detail: shortRevision(p.Revision)}
		if !p.IsGit {
			item.Status = style.StatusWarning
			item.Detail = "not a git checkout"
		}
		section.Items = append(section.Items, item)
	}
	return &View{Title: "list-plugins", Sections: []Section{section}, Summary: r.CacheRoot}
}

// FromListTemplates lists templates per plugin; shadowed ones are marked.
func FromListTemplates(r *types.ListTemplatesResult) *View {
	v := &View{Title: "list-templates"}
	for _, p := range r.Plugins {
		section := Section{Title: p.Plugin, Empty: "No templates"}
		for _, name := range p.Templates {
			item := Item{Status: style.StatusOK, Label: name}
			if winner := r.Winners[name]; winner != p.Plugin {
				item.Status = style.StatusInfo
				item.Detail = "shadowed by " + winner
			}
			section.Items = append(section.Items, item)
		}
		v.Sections = append(v.Sections, section)
	}
	names := make([]string, 0, len(r.Winners))
	for n := range r.Winners {
		names = append(names, n)
	}
	sort.Strings(names)
	v.Summary = fmt.Sprintf("%d templates: %s", len(names), strings.Join(names, ", "))
	return v
}

// FromInit reports the written configuration.
func FromInit(r *types.InitResult) *View {
	detail := r.Format
	if r.Overwrote {
		detail += ", replaced existing"
	}
	return &View{
		Title:    "init",
		Sections: []Section{{Title: "Configuration", Items: []Item{{Status: style.StatusWritten, Label: r.ConfigPath, Detail: detail}}}},
	}
}

func shortRevision(rev string) string {
	if len(rev) > 10 {
		return rev[:10]
	}
	return rev
}
