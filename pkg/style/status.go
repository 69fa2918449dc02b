package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status of a single reported item
type Status string

const (
	StatusWritten   Status = "written"   // Output written to disk
	StatusUnchanged Status = "unchanged" // Output already up to date
	StatusPlanned   Status = "planned"   // Would be written (dry run)
	StatusFailed    Status = "failed"    // Task or plugin failed
	StatusWarning   Status = "warning"   // Validation warning
	StatusOK        Status = "ok"        // Resolved, removed, listed
	StatusInfo      Status = "info"
)

// StatusStyle returns the pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusWritten, StatusOK:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case StatusPlanned:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Indicator returns the single-character marker for a status
func Indicator(status Status) string {
	switch status {
	case StatusWritten, StatusOK:
		return SuccessIndicator
	case StatusFailed:
		return ErrorIndicator
	case StatusWarning:
		return WarningIndicator
	case StatusPlanned:
		return PendingIndicator
	default:
		return InfoIndicator
	}
}

// RenderItem renders one status line: indicator, padded status, label and
// an optional muted detail.
func RenderItem(status Status, label, detail string) string {
	line := fmt.Sprintf("  %s %s %s", Indicator(status), StatusStyle(status).Sprint(fmt.Sprintf("%-9s", status)), label)
	if detail != "" {
		line += "  " + MutedStyle.Render(detail)
	}
	return line
}

// Aggregate folds item statuses into one: any failure wins, then warnings,
// then planned work.
func Aggregate(statuses []Status) Status {
	var warning, planned bool
	for _, s := range statuses {
		switch s {
		case StatusFailed:
			return StatusFailed
		case StatusWarning:
			warning = true
		case StatusPlanned:
			planned = true
		}
	}
	switch {
	case warning:
		return StatusWarning
	case planned:
		return StatusPlanned
	case len(statuses) == 0:
		return StatusInfo
	}
	return StatusOK
}
