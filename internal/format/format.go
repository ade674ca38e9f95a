// Package format renders task format strings of the shape users type on the
// command line: "{project_name:15.15} {content}". Placeholders resolve task
// keys; ":width" pads, ".precision" truncates.
package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

var placeholderRe = regexp.MustCompile(`\{(\w+)(?::([0-9]*)(?:\.([0-9]+))?)?\}`)

// Resolver maps a placeholder key to its value for the task being rendered.
// ok=false renders the placeholder literally, so typos stay visible.
type Resolver func(key string) (query.Value, bool)

// Render substitutes every placeholder in fmtStr via resolve.
func Render(fmtStr string, resolve Resolver) string {
	return placeholderRe.ReplaceAllStringFunc(fmtStr, func(m string) string {
		groups := placeholderRe.FindStringSubmatch(m)
		key, width, prec := groups[1], groups[2], groups[3]
		v, ok := resolve(key)
		if !ok {
			return m
		}
		return pad(text(v), width, prec)
	})
}

// text renders a value for display. Datetimes use the compact local form
// rather than full ISO, matching the default print format.
func text(v query.Value) string {
	if v.Kind == query.KindTime {
		return v.Time.Format("2006-01-02 15:04")
	}
	return v.Text()
}

func pad(s, width, prec string) string {
	if prec != "" {
		if n, err := strconv.Atoi(prec); err == nil && len(s) > n {
			s = s[:n]
		}
	}
	if width != "" {
		if n, err := strconv.Atoi(width); err == nil && len(s) < n {
			s += strings.Repeat(" ", n-len(s))
		}
	}
	return s
}
