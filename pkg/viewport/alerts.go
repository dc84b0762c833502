package viewport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/structhealth/twinview/pkg/twin"
)

// severityRank orders alert severities for display, worst first
func severityRank(severity string) int {
	switch strings.ToLower(severity) {
	case "critical":
		return 0
	case "high":
		return 1
	case "medium":
		return 2
	case "low":
		return 3
	}
	return 4
}

// FormatAlertList renders the alerts as a plain-text table, worst
// severity first. This is the non-3D fallback surface when no
// rendering context is available, and the shared alert view for the
// CLI.
func FormatAlertList(alerts []twin.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts.\n"
	}

	sorted := make([]twin.Alert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityRank(sorted[i].Severity) < severityRank(sorted[j].Severity)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-10s %-30s %-24s %s\n",
		"SEVERITY", "TYPE", "TITLE", "LOCATION", "READING")
	for _, a := range sorted {
		fmt.Fprintf(&b, "%-10s %-10s %-30s %-24s %s %.1f\n",
			strings.ToUpper(a.Severity), a.Type, a.Title, a.LocationName, a.Metric, a.Value)
	}
	return b.String()
}
