package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tuplet/lang/check"
	"github.com/ardnew/tuplet/lang/token"
)

// commands are the available ":" commands.
var commands = []string{":help", ":list", ":reset", ":edit", ":clear", ":quit"}

// builtins are the names with special syntax that are not keywords.
var builtins = []string{"cout", "make_tuple", "get", "tie", "list", "tuple"}

// containerOps are the operations valid after "->".
var containerOps = []string{
	check.OpPushBack,
	check.OpPushFront,
	check.OpPopBack,
	check.OpPopFront,
	check.OpFront,
	check.OpBack,
	check.OpEmpty,
}

// isWordRune reports whether r can be part of a completed word.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the word at cursor and its byte offsets within input.
// A leading ":" belongs to the word so commands complete as a whole.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			if r == ':' && start-size == 0 {
				start -= size
			}

			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// afterArrow reports whether the word starting at wordStart follows "->".
func afterArrow(input string, wordStart int) bool {
	return strings.HasSuffix(strings.TrimRightFunc(input[:wordStart], unicode.IsSpace), "->")
}

// completions returns every name that may complete the word starting at
// wordStart.
func completions(input string, wordStart int, s *Session) []string {
	switch {
	case strings.HasPrefix(input, ":"):
		return commands

	case afterArrow(input, wordStart):
		return containerOps
	}

	names := slices.Concat(token.Keywords(), builtins)
	if s != nil {
		names = append(names, s.Names()...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy matches for the word at the cursor,
// best first. An empty word has no matches except after "->", where every
// operation is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	// Only the first word of a command line completes.
	if strings.HasPrefix(input, ":") && wordStart > 0 {
		return nil, nil, wordStart, wordEnd
	}

	candidates = completions(input, wordStart, m.session)

	if word == "" {
		if !afterArrow(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. Matched characters are highlighted and the selected
// candidate, while tabbing, uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
