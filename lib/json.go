package lib

import (
	"encoding/json"
	"strings"

	"github.com/jpschroeder/glisp"
	"gopkg.in/yaml.v3"
)

func jsonBuiltins() []builtin {
	return []builtin{
		{"json-parse", 1, 1, jsonParse, "(json-parse s) objects become environments, arrays lists"},
		{"json-string", 1, 1, jsonString, "(json-string x) encodes a list or environment"},
	}
}

func yamlBuiltins() []builtin {
	return []builtin{
		{"yaml-parse", 1, 1, yamlParse, "(yaml-parse s) mappings become environments, sequences lists"},
		{"yaml-string", 1, 1, yamlString, "(yaml-string x) encodes a value as YAML"},
	}
}

func jsonParse(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	s, err := glisp.ArgString(env, args, 0, "json-parse")
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, glisp.Errorf(glisp.Custom, "json-parse: %v", err)
	}
	return fromGo(v)
}

func jsonString(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	v, err := glisp.Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	s, err := glisp.PrintJSON(v)
	if err != nil {
		return nil, err
	}
	return glisp.String(s), nil
}

func yamlParse(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	s, err := glisp.ArgString(env, args, 0, "yaml-parse")
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, glisp.Errorf(glisp.Custom, "yaml-parse: %v", err)
	}
	return fromGo(v)
}

func yamlString(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	v, err := glisp.Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	native, err := toGo(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(native)
	if err != nil {
		return nil, glisp.Errorf(glisp.Custom, "yaml-string: %v", err)
	}
	return glisp.String(out), nil
}
