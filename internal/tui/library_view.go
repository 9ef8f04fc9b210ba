package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// filterSearch narrows the cached list by the live search query using fuzzy
// matching, so "go conc" finds "Concurrency in Go". An empty query returns
// the full list in server order.
func (m Model) filterSearch() []domain.Book {
	books := m.store.Books()
	query := strings.TrimSpace(m.searchQuery)
	if query == "" {
		return books
	}

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = strings.ToLower(b.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), titles)
	out := make([]domain.Book, 0, len(matches))
	for _, match := range matches {
		out = append(out, books[match.Index])
	}
	return out
}

// libraryView renders the library page shell
func (m Model) libraryView() string {
	var b strings.Builder

	// Header
	title := styles.TitleStyle.Render("Folio")
	sub := styles.SubtitleStyle.Render("  personal document library")
	b.WriteString(title + sub + "\n")
	if m.loading {
		frame := styles.SpinnerFrames[m.spinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString(styles.AccentStyle.Render(frame+" loading…") + "\n")
	} else {
		b.WriteString("\n")
	}

	// Active search / filter line
	var filters []string
	if m.searchQuery != "" {
		filters = append(filters, fmt.Sprintf("search: %q", m.searchQuery))
	}
	if m.statusFilter != "" {
		filters = append(filters, "status: "+string(m.statusFilter))
	}
	if len(filters) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(filters, "  ·  ")) + "\n")
	}

	// Book list
	books := m.visibleBooks()
	if len(books) == 0 {
		if m.store.Loaded() {
			b.WriteString("\n" + styles.DimStyle.Render("  no books match") + "\n")
		} else {
			b.WriteString("\n" + styles.DimStyle.Render("  library not loaded yet") + "\n")
		}
	}

	for i, book := range books {
		line := fmt.Sprintf("%s %s %-40s %8s %4d%%  %s",
			statusGlyph(book.Status),
			book.CategoryIcon(),
			truncate(book.Title, 40),
			book.PageLabel(),
			book.Progress,
			styles.DimStyle.Render(book.FormattedLastRead()),
		)
		if i == m.cursor {
			line = styles.SelectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	// Stats footer
	st := m.store.Stats()
	stats := fmt.Sprintf("%d books · %d reading · %d completed · %d not started",
		st.Total, st.Reading, st.Completed, st.NotStarted)
	b.WriteString("\n" + styles.SubtitleStyle.Render(stats) + "\n")

	// Status line / input prompt
	b.WriteString(m.footerView("enter open · / search · f filter · u upload · d delete · r refresh · q quit"))

	return b.String()
}

// footerView renders the shared status line or active input prompt
func (m Model) footerView(help string) string {
	if m.mode != inputNone {
		return styles.AccentStyle.Render("> ") + m.input.View()
	}
	if m.statusMsg != "" {
		style := styles.SuccessStyle
		if m.statusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(m.statusMsg) + "\n" + styles.DimStyle.Render(help)
	}
	return styles.DimStyle.Render(help)
}

func statusGlyph(s domain.ReadingStatus) string {
	switch s {
	case domain.StatusCompleted:
		return styles.SuccessStyle.Render(styles.GlyphCompleted)
	case domain.StatusReading:
		return styles.AccentStyle.Render(styles.GlyphReading)
	default:
		return styles.DimStyle.Render(styles.GlyphNotStarted)
	}
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) > max-1 {
		runes = runes[:max-1]
	}
	return string(runes) + "…"
}
