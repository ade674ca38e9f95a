package cli

import "strings"

// actionGroup is one parsed `-action arg arg key=value` run of tokens.
// key=value tokens anywhere in the run become kwargs; the rest stay
// positional, in order.
type actionGroup struct {
	Name   string
	Args   []string
	Kwargs map[string]string
}

// parseArgv splits argv into action groups, find(1)-style: a token with a
// leading dash starts a new action, every following token up to the next
// dash token belongs to it. Tokens before the first action form the base
// group (its kwargs configure the run, e.g. the inject toggles).
//
// Values that legitimately start with a dash must be passed as key=value or
// quoted into a preceding arg; there is no escape token.
func parseArgv(argv []string) (base actionGroup, groups []actionGroup) {
	base.Kwargs = map[string]string{}
	current := &base
	for _, token := range argv {
		if strings.HasPrefix(token, "-") && token != "-" {
			groups = append(groups, actionGroup{
				Name:   strings.TrimLeft(token, "-"),
				Kwargs: map[string]string{},
			})
			current = &groups[len(groups)-1]
			continue
		}
		if key, value, ok := splitKwarg(token); ok {
			current.Kwargs[key] = value
			continue
		}
		current.Args = append(current.Args, token)
	}
	return base, groups
}

// splitKwarg recognizes key=value tokens, splitting at the first '='.
func splitKwarg(token string) (key, value string, ok bool) {
	i := strings.IndexByte(token, '=')
	if i <= 0 {
		return "", "", false
	}
	return token[:i], token[i+1:], true
}
