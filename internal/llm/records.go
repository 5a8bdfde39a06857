package llm

import "strings"

// ParseRecords extracts named fields from a semi-structured text block of
// the form produced by lookup prompts: records separated by a delimiter
// line, fields as "Name: value" lines. Records missing any required field
// are dropped silently; a malformed block yields fewer records, not an
// error.
func ParseRecords(text, delim string, required []string) []map[string]string {
	var out []map[string]string
	for _, block := range strings.Split(text, "\n"+delim) {
		rec := map[string]string{}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || line == delim {
				continue
			}
			name, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			if name == "" || value == "" {
				continue
			}
			if _, dup := rec[name]; !dup {
				rec[name] = value
			}
		}
		if complete(rec, required) {
			out = append(out, rec)
		}
	}
	return out
}

func complete(rec map[string]string, required []string) bool {
	if len(rec) == 0 {
		return false
	}
	for _, f := range required {
		if rec[f] == "" {
			return false
		}
	}
	return true
}
