package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cleared-dev/bulkutil/internal/validation"
)

// textStyles are bound to the output writer, so they render as plain text
// unless w is a color terminal.
type textStyles struct {
	heading lipgloss.Style
	failed  lipgloss.Style
	ok      lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		heading: r.NewStyle().Bold(true),
		failed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		ok:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	}
}

// WriteText renders res for a terminal. Each category lists at most
// maxPerCategory messages (0 = all) followed by a count of the rest.
func WriteText(w io.Writer, res validation.Result, maxPerCategory int) error {
	var b strings.Builder
	st := newTextStyles(w)

	if res.OK() {
		b.WriteString(st.ok.Render("Validation successful.") + "\n")
	} else {
		b.WriteString(st.failed.Render("Validation failed:") + "\n")
		writeIssues(&b, st, res, maxPerCategory)
		fmt.Fprintf(&b, "Total issues: %d\n", res.IssueCount())
	}

	b.WriteString("\n" + st.heading.Render("Summary:") + "\n")
	for _, label := range validation.StatLabels {
		fmt.Fprintf(&b, "  %-28s %d\n", label+":", res.Stats[label])
	}
	if res.OK() {
		fmt.Fprintf(&b, "  %-28s %s\n", "Value Total:", res.ValueTotal.String())
		if res.NonNumericValues > 0 {
			fmt.Fprintf(&b, "  %-28s %d\n", "Non-numeric Values:", res.NonNumericValues)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, st textStyles, res validation.Result, maxPerCategory int) {
	for _, cat := range orderedCategories(res) {
		msgs := res.Errors[cat]
		b.WriteString(st.heading.Render(fmt.Sprintf("%s (%d):", cat, len(msgs))) + "\n")
		shown := msgs
		if maxPerCategory > 0 && len(shown) > maxPerCategory {
			shown = shown[:maxPerCategory]
		}
		for _, m := range shown {
			fmt.Fprintf(b, "  - %s\n", m)
		}
		if rest := len(msgs) - len(shown); rest > 0 {
			fmt.Fprintf(b, "  ... and %d more\n", rest)
		}
	}
}

// orderedCategories returns the categories present in res in report order.
func orderedCategories(res validation.Result) []validation.Category {
	var cats []validation.Category
	for _, cat := range validation.Categories {
		if len(res.Errors[cat]) > 0 {
			cats = append(cats, cat)
		}
	}
	return cats
}
