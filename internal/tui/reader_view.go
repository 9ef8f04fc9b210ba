package tui

import (
	"fmt"
	"strings"

	"github.com/mmcdole/folio/internal/session"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// readerView renders the reader page shell. Page rasterization lives in the
// external viewer; this shell owns navigation, progress, and bookmarks.
func (m Model) readerView() string {
	if m.sess == nil {
		return ""
	}

	var b strings.Builder

	switch m.sess.State() {
	case session.StateLoading:
		frame := styles.SpinnerFrames[m.spinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString("\n " + styles.AccentStyle.Render(frame+" loading book…") + "\n")
		return b.String()

	case session.StateError:
		b.WriteString("\n " + styles.ErrorStyle.Render("✗ could not open book") + "\n")
		b.WriteString(" " + styles.DimStyle.Render(m.sess.Err().Error()) + "\n\n")
		b.WriteString(" " + styles.DimStyle.Render("esc back to library") + "\n")
		return b.String()
	}

	book := m.sess.Book()

	// Header: title and position
	b.WriteString(styles.TitleStyle.Render(book.Title))
	pos := fmt.Sprintf("  page %d of %s", m.sess.Page(), totalLabel(m.sess.TotalPages()))
	b.WriteString(styles.SubtitleStyle.Render(pos) + "\n")

	// Progress bar
	b.WriteString(progressBar(m.sess.Page(), m.sess.TotalPages(), 40) + "\n\n")

	// Page placeholder pane
	pane := fmt.Sprintf("%s document · %s view\n\nopen in an external viewer with 'o'",
		strings.ToUpper(string(book.FileType)), m.sess.ViewMode())
	b.WriteString(styles.PaneBorder.Render(pane) + "\n\n")

	// Bookmarks
	if current, ok := m.store.Get(book.ID); ok && len(current.Bookmarks) > 0 {
		marks := make([]string, len(current.Bookmarks))
		for i, p := range current.Bookmarks {
			label := fmt.Sprintf("p.%d", p)
			if p == m.sess.Page() {
				label = styles.AccentStyle.Render(label)
			}
			marks[i] = label
		}
		b.WriteString(styles.DimStyle.Render("bookmarks: ") + strings.Join(marks, " ") + "\n\n")
	}

	help := "←/→ turn page · g go to · v view mode · b bookmark · o viewer · esc back"
	if m.sess.TotalPages() <= 0 {
		help = "t set page count · o viewer · esc back"
	}
	b.WriteString(m.footerView(help))

	return b.String()
}

func totalLabel(total int) string {
	if total <= 0 {
		return "--"
	}
	return fmt.Sprintf("%d", total)
}

// progressBar renders a simple filled bar for the current position
func progressBar(page, total, width int) string {
	if total <= 0 {
		return styles.DimStyle.Render(strings.Repeat("░", width))
	}
	filled := page * width / total
	if filled > width {
		filled = width
	}
	bar := styles.AccentStyle.Render(strings.Repeat("█", filled)) +
		styles.DimStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
