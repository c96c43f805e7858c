package glisp

import (
	"strconv"
	"strings"
)

// Stem is one step of a path: either a list index or an environment field
type Stem struct {
	Index   int
	Field   string
	IsIndex bool
}

func (s Stem) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// Path is a symbol split on ':' into a prefix and its stems
type Path struct {
	Prefix string
	Stems  []Stem
}

// ParsePath classifies name. A name without ':' yields a path with no stems.
func ParsePath(name string) (Path, error) {
	parts := strings.Split(name, ":")
	if parts[0] == "" {
		return Path{}, newError(Custom, "invalid path %q: empty prefix", name)
	}
	p := Path{Prefix: parts[0]}
	for _, part := range parts[1:] {
		if part == "" {
			return Path{}, newError(Custom, "invalid path %q: empty stem", name)
		}
		if isIndexStem(part) {
			i, err := strconv.Atoi(part)
			if err != nil {
				return Path{}, newError(Custom, "invalid path %q: %v", name, err)
			}
			p.Stems = append(p.Stems, Stem{Index: i, IsIndex: true})
		} else {
			p.Stems = append(p.Stems, Stem{Field: part})
		}
	}
	return p, nil
}

func isIndexStem(s string) bool {
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.Prefix)
	for _, s := range p.Stems {
		b.WriteByte(':')
		b.WriteString(s.String())
	}
	return b.String()
}

// step moves one stem into cur
func (p Path) step(cur Object, s Stem) (Object, error) {
	if s.IsIndex {
		l, ok := cur.(*List)
		if !ok {
			return nil, newError(TypeMismatch, "%s: stem %d indexes a %s, not a list", p, s.Index, cur.Kind())
		}
		data := l.Data()
		idx, err := resolveIndex(s.Index, len(data))
		if err != nil {
			return nil, newError(IndexOutOfRange, "%s: %v", p, err)
		}
		return data[idx], nil
	}
	e, ok := cur.(*Env)
	if !ok {
		return nil, newError(TypeMismatch, "%s: field %q on a %s, not an environment", p, s.Field, cur.Kind())
	}
	v, ok := e.DeepFind(s.Field)
	if !ok {
		return nil, newError(UnboundSymbol, "%s: no field %q", p, s.Field)
	}
	return v, nil
}

// resolve walks the stems starting from root
func (p Path) resolve(root Object) (Object, error) {
	cur := root
	for _, s := range p.Stems {
		next, err := p.step(cur, s)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// assign stores v at the end of the path below root, creating missing
// lists (padded with Nil) and environments on the way. Lists are copied
// before the write, so the returned root must be stored by the caller.
func (p Path) assign(root Object, stems []Stem, v Object) (Object, error) {
	if len(stems) == 0 {
		return v, nil
	}
	s := stems[0]
	if s.IsIndex {
		l, ok := root.(*List)
		switch {
		case root == nil || root == Nil || root == Empty:
			l = NewData()
		case !ok:
			return nil, newError(TypeMismatch, "%s: stem %d indexes a %s, not a list", p, s.Index, root.Kind())
		}
		l, data := l.detach()
		if s.Index < 0 {
			if _, err := resolveIndex(s.Index, data.Len()); err != nil {
				return nil, newError(IndexOutOfRange, "%s: %v", p, err)
			}
		}
		for data.Len() <= s.Index {
			data.Append(Nil)
		}
		idx, _ := resolveIndex(s.Index, data.Len())
		child, err := p.assign(data.items[idx], stems[1:], v)
		if err != nil {
			return nil, err
		}
		data.items[idx] = child
		return l, nil
	}

	e, ok := root.(*Env)
	switch {
	case root == nil || root == Nil || root == Empty:
		e = NewEnv(nil)
	case !ok:
		return nil, newError(TypeMismatch, "%s: field %q on a %s, not an environment", p, s.Field, root.Kind())
	}
	var cur Object
	owner := e.owner(s.Field)
	if owner == nil {
		owner = e
	} else {
		cur = owner.vars[s.Field].value
		if owner.vars[s.Field].isConst && len(stems) == 1 {
			return nil, newError(ConstBinding, "%s: field %q is constant", p, s.Field)
		}
	}
	child, err := p.assign(cur, stems[1:], v)
	if err != nil {
		return nil, err
	}
	owner.setLocal(s.Field, child, false)
	return e, nil
}
