// Package format renders activity log entries for humans: one-line
// descriptions for the activity view and CSV rows for bulk export.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"opsdesk/internal/activity"
)

// CSVHeader is the export header row.
const CSVHeader = "Timestamp,User,Action,Module,Details"

// Describe produces a human-readable line for an entry. When the details carry
// a name, title or description (checked in that priority order), it is appended
// as context; otherwise the line is just action and module.
func Describe(entry activity.Entry) string {
	line := fmt.Sprintf("%s %s", entry.Action, entry.Module)
	for _, key := range []string{"name", "title", "description"} {
		if v, ok := entry.Details[key].(string); ok && v != "" {
			return fmt.Sprintf("%s (%s)", line, v)
		}
	}
	return line
}

// CSVRow serializes one entry. Details are JSON-stringified with embedded
// quotes doubled and the whole field quoted, standard CSV quoting. Details
// that fail to serialize degrade to an empty string rather than aborting the
// export.
func CSVRow(entry activity.Entry) string {
	details := ""
	if entry.Details != nil {
		if payload, err := json.Marshal(entry.Details); err == nil {
			details = string(payload)
		}
	}
	fields := []string{
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.IdentityName,
		entry.Action,
		entry.Module,
		details,
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// WriteCSV streams the header and one row per entry, newline-joined.
func WriteCSV(w io.Writer, entries []activity.Entry) error {
	if _, err := io.WriteString(w, CSVHeader+"\n"); err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := io.WriteString(w, CSVRow(entry)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportFilename names the download after the export date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("activity-logs-%s.csv", now.UTC().Format("2006-01-02"))
}
