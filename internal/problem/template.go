package problem

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"probgen/internal/numfmt"
	"probgen/internal/question"
)

// RenderTemplate substitutes {name} placeholders with the canonical text of
// the matching value in set. Every other brace is literal markup and is
// copied verbatim, so LaTeX such as \frac{1}{2} or \binom{{n}}{x} renders
// intact. A placeholder naming a declared parameter that is missing from
// set is a TemplateError.
func RenderTemplate(text string, set ParameterSet, params question.Params) (string, error) {
	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '{')
		if open < 0 {
			b.WriteString(text[i:])
			break
		}
		b.WriteString(text[i : i+open])
		i += open

		name, end := placeholderAt(text, i)
		if name == "" {
			b.WriteByte('{')
			i++
			continue
		}
		if value, ok := set[name]; ok {
			b.WriteString(numfmt.Canonical(value))
		} else if _, declared := params.Param(name); declared {
			return "", &TemplateError{Placeholder: name, Err: fmt.Errorf("%w: parameter %q has no value", ErrUnresolvedPlaceholder, name)}
		} else {
			b.WriteString(text[i:end])
		}
		i = end
	}
	return b.String(), nil
}

// placeholderAt parses an identifier wrapped in braces starting at text[i],
// returning the name and the offset after the closing brace, or "" when
// text[i:] does not start with a placeholder.
func placeholderAt(text string, i int) (string, int) {
	j := i + 1
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == '}' {
			if j == i+1 {
				return "", 0
			}
			return text[i+1 : j], j + 1
		}
		isStart := r == '_' || unicode.IsLetter(r)
		if !isStart && (j == i+1 || !unicode.IsDigit(r)) {
			return "", 0
		}
		j += size
	}
	return "", 0
}
