package lib

import (
	"github.com/jpschroeder/glisp"
)

func regexBuiltins() []builtin {
	return []builtin{
		{"regex", 1, 1, regex, "(regex pattern) compiles a pattern string"},
		{"match", 2, 2, match, "(match re s) the match and its groups, or nil"},
		{"find-all", 2, 3, findAll, "(find-all re s [n]) every match, at most n"},
		{"regex-replace", 3, 3, regexReplace, "(regex-replace re s repl) replaces matches; $1 expands groups"},
	}
}

func regex(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	return glisp.ArgRegex(env, args, 0, "regex")
}

func match(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	re, err := glisp.ArgRegex(env, args, 0, "match")
	if err != nil {
		return nil, err
	}
	s, err := glisp.ArgString(env, args, 1, "match")
	if err != nil {
		return nil, err
	}
	groups := re.Regexp().FindStringSubmatch(s)
	if groups == nil {
		return glisp.Nil, nil
	}
	return strs(groups), nil
}

func findAll(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	re, err := glisp.ArgRegex(env, args, 0, "find-all")
	if err != nil {
		return nil, err
	}
	s, err := glisp.ArgString(env, args, 1, "find-all")
	if err != nil {
		return nil, err
	}
	n := int64(-1)
	if args.Len() == 3 {
		if n, err = glisp.ArgInt(env, args, 2, "find-all"); err != nil {
			return nil, err
		}
	}
	return strs(re.Regexp().FindAllString(s, int(n))), nil
}

func regexReplace(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	re, err := glisp.ArgRegex(env, args, 0, "regex-replace")
	if err != nil {
		return nil, err
	}
	s, err := glisp.ArgString(env, args, 1, "regex-replace")
	if err != nil {
		return nil, err
	}
	repl, err := glisp.ArgString(env, args, 2, "regex-replace")
	if err != nil {
		return nil, err
	}
	return glisp.String(re.Regexp().ReplaceAllString(s, repl)), nil
}
