// Package urlx resolves URL path templates with named placeholders, e.g.
// "https://host/:serviceSlug/:userId".
package urlx

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9]*)`)

// Resolve replaces every ":name" placeholder in template with the
// corresponding value from subs, path-escaping each value. A placeholder
// without a substitution is an error: call sites are expected to always
// supply every placeholder their templates use.
func Resolve(template string, subs map[string]string) (string, error) {
	var missing []string

	resolved := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := strings.TrimPrefix(m, ":")
		value, ok := subs[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(value)
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholders in %q: %s", template, strings.Join(missing, ", "))
	}

	return resolved, nil
}
