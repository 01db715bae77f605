package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/poorstock/stockreport/internal/analyzer"
)

const statusHeading = "## Status"

// UpdateReadme replaces the "## Status" section of the README with the
// current summary table, or appends one if the section does not exist. The
// stamp carries the reference-zone abbreviation so readers know which clock
// it is on.
func UpdateReadme(path string, rep *analyzer.Report) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read README: %w", err)
	}

	section := statusHeading + "\n" +
		"Update time: " + rep.GeneratedAt.Format("2006-01-02 15:04:05 MST") + "\n\n" +
		SummaryTable(rep) + "\n"

	content := string(bs)
	start := strings.Index(content, statusHeading)

	var updated string
	if start == -1 {
		updated = strings.TrimRight(content, "\n") + "\n\n" + section
	} else {
		end := strings.Index(content[start+1:], "\n## ")
		if end == -1 {
			end = len(content)
		} else {
			end += start + 1
		}
		updated = content[:start] + section + "\n" + content[end:]
	}

	return os.WriteFile(path, []byte(updated), 0644)
}
