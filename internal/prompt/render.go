package prompt

import (
	"fmt"
	"regexp"
)

// MissingPlaceholderError reports a template placeholder with no value in
// the supplied mapping.
type MissingPlaceholderError struct {
	Template    string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("prompt %q: missing placeholder %q", e.Template, e.Placeholder)
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Render substitutes {name} placeholders in the named template with values
// from vars. Substitution is literal: caller-supplied text is inserted
// verbatim, no escaping.
func Render(name string, vars map[string]string) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var missing *MissingPlaceholderError
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := vars[key]
		if !ok {
			if missing == nil {
				missing = &MissingPlaceholderError{Template: name, Placeholder: key}
			}
			return m
		}
		return v
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}
