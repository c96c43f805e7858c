package lib

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jpschroeder/glisp"
)

// fromGo turns decoded JSON or YAML into objects. Maps become environments
// and slices quoted lists.
func fromGo(v any) (glisp.Object, error) {
	switch t := v.(type) {
	case nil:
		return glisp.Nil, nil
	case bool:
		return glisp.MakeBool(t), nil
	case int:
		return glisp.Int(t), nil
	case int64:
		return glisp.Int(t), nil
	case uint64:
		return glisp.Int(int64(t)), nil
	case float64:
		return glisp.Double(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return glisp.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return glisp.Double(f), nil
	case string:
		return glisp.String(t), nil
	case time.Time:
		return &glisp.Opaque{Type: "time", Value: t}, nil
	case []any:
		out := make([]glisp.Object, len(t))
		for i, item := range t {
			o, err := fromGo(item)
			if err != nil {
				return nil, err
			}
			out[i] = o
		}
		return glisp.NewData(out...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		env := glisp.NewEnv(nil)
		for _, k := range keys {
			o, err := fromGo(t[k])
			if err != nil {
				return nil, err
			}
			if err := env.Define(k, o); err != nil {
				return nil, err
			}
		}
		return env, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = item
		}
		return fromGo(m)
	}
	return nil, glisp.Errorf(glisp.TypeMismatch, "cannot convert %T", v)
}

// toGo is the inverse of fromGo for encoders that want plain Go values
func toGo(obj glisp.Object) (any, error) {
	switch t := obj.(type) {
	case glisp.NilValue:
		return nil, nil
	case glisp.Bool:
		return bool(t), nil
	case glisp.Int:
		return int64(t), nil
	case glisp.Double:
		return float64(t), nil
	case glisp.String:
		return string(t), nil
	case glisp.Symbol:
		return string(t), nil
	case *glisp.List:
		data := t.Data()
		out := make([]any, len(data))
		for i, item := range data {
			v, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *glisp.Env:
		out := make(map[string]any, t.Len())
		for _, name := range t.Names() {
			item, ok := t.Find(name)
			if !ok {
				continue
			}
			v, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, nil
	case *glisp.Opaque:
		if tm, ok := t.Value.(time.Time); ok {
			return tm, nil
		}
	}
	return nil, glisp.Errorf(glisp.TypeMismatch, "cannot encode %s", obj.Kind())
}
