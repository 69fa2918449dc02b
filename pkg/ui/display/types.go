// Package display turns command results into a format-neutral view that
// the text and terminal renderers lay out.
package display

import "github.com/solitary-project/forge/pkg/style"

// View is the display form of one command result.
//
//	<Title>
//	<Section title>
//	  <status> <label>  <detail>
//	<Summary>
type View struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Summary  string    `json:"summary,omitempty"`
	DryRun   bool      `json:"dryRun,omitempty"`
}

// Section is a titled group of items, such as the plugins of a build.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
	// Empty is shown instead of items when there are none.
	Empty string `json:"empty,omitempty"`
}

// Item is one line of a section.
type Item struct {
	Status style.Status `json:"status"`
	Label  string       `json:"label"`
	Detail string       `json:"detail,omitempty"`
}

// Status folds the section's item statuses into one.
func (s Section) Status() style.Status {
	statuses := make([]style.Status, len(s.Items))
	for i, it := range s.Items {
		statuses[i] = it.Status
	}
	return style.Aggregate(statuses)
}
