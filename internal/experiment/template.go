package experiment

import (
	"fmt"
	"regexp"
)

var placeholderRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes {{name}} placeholders with params. Unknown placeholders are
// an error so that generated file names never contain template syntax.
func Render(tmpl string, params map[string]string) (string, error) {
	result := placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := params[key]; ok {
			return val
		}
		return match
	})

	if missing := Placeholders(result); len(missing) > 0 {
		return "", fmt.Errorf("template %q missing params: %v", tmpl, missing)
	}
	return result, nil
}

func Placeholders(s string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
