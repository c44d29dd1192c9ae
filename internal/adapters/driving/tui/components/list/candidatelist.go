// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// CandidateList displays scored communities in scoring order.
// It follows the newest entry until the user scrolls.
type CandidateList struct {
	candidates []domain.CandidateCommunity
	selected   int
	follow     bool
	styles     *styles.Styles
	width      int
	height     int
}

// NewCandidateList creates a new candidate list component.
func NewCandidateList(s *styles.Styles) *CandidateList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CandidateList{
		follow: true,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Append adds a scored candidate.
func (l *CandidateList) Append(c domain.CandidateCommunity) {
	l.candidates = append(l.candidates, c)
	if l.follow {
		l.selected = len(l.candidates) - 1
	}
}

// SetCandidates replaces the list, keeping the selection in range.
func (l *CandidateList) SetCandidates(candidates []domain.CandidateCommunity) {
	l.candidates = candidates
	if l.selected >= len(candidates) {
		l.selected = max(len(candidates)-1, 0)
	}
}

// View renders the visible window of the list.
func (l *CandidateList) View() string {
	if len(l.candidates) == 0 {
		return l.styles.Muted.Render("No communities checked yet")
	}

	visible := max(l.height, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.candidates))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderCandidate(i, l.candidates[i]))
	}
	return strings.Join(lines, "\n")
}

// renderCandidate formats one community row.
func (l *CandidateList) renderCandidate(index int, c domain.CandidateCommunity) string {
	nameWidth := max(l.width-36, 12)
	name := "r/" + c.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}

	var detail string
	if c.Unavailable {
		detail = "unavailable"
	} else {
		detail = fmt.Sprintf("%3d/%-3d matched  %4.0f%%", c.MatchedCount, c.SampledCount, c.Ratio()*100)
	}
	row := fmt.Sprintf("%s %-*s  %s", mark(c), nameWidth, name, detail)

	switch {
	case index == l.selected && !l.follow:
		return l.styles.Selected.Render(row)
	case c.Accepted:
		return l.styles.Accepted.Render(row)
	case c.Unavailable:
		return l.styles.Unavailable.Render(row)
	default:
		return l.styles.Muted.Render(row)
	}
}

func mark(c domain.CandidateCommunity) string {
	switch {
	case c.Accepted:
		return "✓"
	case c.Unavailable:
		return "!"
	default:
		return "·"
	}
}

// MoveUp moves selection up and stops following new entries.
func (l *CandidateList) MoveUp() {
	l.follow = false
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down. Reaching the end resumes following.
func (l *CandidateList) MoveDown() {
	if l.selected < len(l.candidates)-1 {
		l.selected++
	}
	if l.selected == len(l.candidates)-1 {
		l.follow = true
	}
}

// Selected returns the index of the selected row.
func (l *CandidateList) Selected() int {
	return l.selected
}

// Following reports whether the list tracks the newest entry.
func (l *CandidateList) Following() bool {
	return l.follow
}

// SetDimensions sets the component dimensions. Height is in rows.
func (l *CandidateList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of candidates.
func (l *CandidateList) Count() int {
	return len(l.candidates)
}
