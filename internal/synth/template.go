package synth

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches a {{token}} placeholder left in rendered output.
var placeholderPattern = regexp.MustCompile(`\{\{[a-z_]+\}\}`)

// render substitutes {{key}} placeholders in tmpl from vars. Unlike naive
// string replacement, it fails loudly when the template references a
// placeholder the context doesn't provide, instead of leaving raw tokens in
// published output.
func render(tmpl string, vars map[string]string) (string, error) {
	result := tmpl
	for key, val := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", val)
	}
	if leftover := placeholderPattern.FindString(result); leftover != "" {
		return "", fmt.Errorf("template references unknown placeholder %s", leftover)
	}
	return result, nil
}
