// Package report renders the computed metrics for people: relative times,
// markdown, terminal tables, JSON, and the README status section. The engine
// itself never formats anything; it hands structured output to this layer.
package report

import (
	"fmt"
	"time"

	"github.com/poorstock/stockreport/internal/instant"
)

// Fixed labels for absent values.
const (
	LabelNever       = "Never"
	LabelSingleBatch = "Single batch"
	LabelNA          = "N/A"
)

// TimeAgo renders how long before now an instant happened. At most the two
// largest non-zero units are shown. Sentinels render as Never.
func TimeAgo(now time.Time, in instant.Instant) string {
	t, ok := in.Time()
	if !ok {
		return LabelNever
	}

	diff := now.Sub(t)
	if diff < 0 {
		return "Future"
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%d days %d hours ago", days, hours)
	case days > 0:
		return fmt.Sprintf("%d days ago", days)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d hours %d minutes ago", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hours ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	return "Just now"
}

// Duration renders a processing span. ok=false means fewer than two distinct
// concrete instants existed, which reads as a single batch rather than a
// zero-length run.
func Duration(span time.Duration, ok bool) string {
	if !ok {
		return LabelSingleBatch
	}

	days := int(span.Hours()) / 24
	hours := int(span.Hours()) % 24
	minutes := int(span.Minutes()) % 60

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%d days %d hours", days, hours)
	case days > 0:
		return fmt.Sprintf("%d days", days)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d hours %d minutes", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hours", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minutes", minutes)
	}
	return "< 1 minute"
}

// Rate renders a success percentage to one decimal place, or N/A when the
// master list is empty.
func Rate(rate float64, ok bool) string {
	if !ok {
		return LabelNA
	}
	return fmt.Sprintf("%.1f%%", rate)
}
