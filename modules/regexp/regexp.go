// Package regexp provides the REGEX function of the standard environment.
// Patterns use RE2 syntax. Compiled patterns are cached.
package regexp

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/prosuite/evaluation/object"
)

var cache sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := cache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("REGEX: %w", err)
	}
	cache.Store(pattern, re)
	return re, nil
}

var groupRef = regexp.MustCompile(`\$(\d+)`)

// expandGroups rewrites $1 style group references as ${1}, so that a digit
// or letter following the reference is not taken as part of the group name.
func expandGroups(replacement string) string {
	return groupRef.ReplaceAllString(replacement, `$${$1}`)
}

func stringArgs(args []object.Value) ([]string, bool, error) {
	result := make([]string, len(args))
	for i, arg := range args {
		if arg.IsNull() {
			return nil, false, nil
		}
		s, ok := arg.Str()
		if !ok {
			return nil, false, fmt.Errorf("REGEX: expected a string (%s given)", arg.Type())
		}
		result[i] = s
	}
	return result, true, nil
}

// Regex with two arguments (pattern, text) reports whether the pattern
// matches somewhere in text. With three arguments (pattern, text,
// replacement) it replaces all matches. Any null argument yields null.
func Regex(args ...object.Value) (object.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return object.Null, fmt.Errorf("REGEX: expected 2 or 3 arguments, got %d", len(args))
	}
	strs, ok, err := stringArgs(args)
	if err != nil || !ok {
		return object.Null, err
	}
	re, err := compile(strs[0])
	if err != nil {
		return object.Null, err
	}
	if len(strs) == 2 {
		return object.NewBool(re.MatchString(strs[1])), nil
	}
	return object.NewString(re.ReplaceAllString(strs[1], expandGroups(strs[2]))), nil
}

// Builtins returns the functions of this package for registration in an
// environment.
func Builtins() []*object.Builtin {
	return []*object.Builtin{
		object.NewBuiltin("REGEX", 2, Regex),
		object.NewBuiltin("REGEX", 3, Regex),
	}
}
