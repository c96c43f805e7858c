// Package lib holds the builtins that sit on top of the language core:
// strings, regular expressions, JSON and YAML, time, uuids and number
// formatting. Everything is registered through the ordinary builtin calling
// convention.
package lib

import (
	"github.com/jpschroeder/glisp"
)

type builtin struct {
	name     string
	min, max int
	fn       glisp.BuiltinFunc
	help     string
}

// Register adds every library builtin to r
func Register(r *glisp.Registry) error {
	groups := [][]builtin{
		stringBuiltins(),
		regexBuiltins(),
		jsonBuiltins(),
		yamlBuiltins(),
		timeBuiltins(),
		uuidBuiltins(),
		numberBuiltins(),
	}
	for _, group := range groups {
		for _, b := range group {
			if err := r.Register(b.name, b.min, b.max, b.fn, b.help); err != nil {
				return err
			}
		}
	}
	return nil
}
