package help

import (
	"github.com/pterm/pterm"
)

// FormatColor renders rows as a table with colored keys, grouping rows
// by their Group value with an empty row between groups — the
// "reference terminal formatter" spec.md §1 names as a consumer of
// help listings, built the way the teacher's trepl uses pterm for its
// own REPL output (styled prefixes, pterm.DefaultTree/leveled lists).
func FormatColor(rows []Row) string {
	if len(rows) == 0 {
		return pterm.FgGray.Sprint("(no further input expected)") + "\n"
	}
	data := pterm.TableData{{"KEY", "DESCRIPTION"}}
	lastGroup := rows[0].Group
	for _, r := range rows {
		if r.Group != lastGroup {
			data = append(data, []string{"", ""})
			lastGroup = r.Group
		}
		key := pterm.FgCyan.Sprint(r.Key)
		data = append(data, []string{key, r.Text})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		tracer().Errorf("help.FormatColor: %v", err)
		return Format(rows)
	}
	return out
}
