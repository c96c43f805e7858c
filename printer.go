package glisp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Print renders obj in source syntax, so that reading the result back gives
// an equal object for literals and lists
func Print(obj Object) string {
	var b strings.Builder
	printTo(&b, obj)
	return b.String()
}

// Display is Print except that strings are written raw
func Display(obj Object) string {
	if s, ok := obj.(String); ok {
		return string(s)
	}
	return Print(obj)
}

func printTo(b *strings.Builder, obj Object) {
	switch t := obj.(type) {
	case EmptyValue:
	case NilValue:
		b.WriteString("nil")
	case Bool:
		if t {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case Double:
		b.WriteString(formatDouble(float64(t)))
	case String:
		b.WriteString(quoteString(string(t)))
	case Symbol:
		b.WriteString(string(t))
	case *Regex:
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(t.Source, "/", `\/`))
		b.WriteByte('/')
	case *List:
		printList(b, t)
	case *Env:
		printEnv(b, t)
	case *Lambda:
		printLambda(b, t.Params, t.Doc, t.Body)
	case Builtin:
		fmt.Fprintf(b, "<builtin #%d>", int(t))
	case *Opaque:
		if s, ok := t.Value.(fmt.Stringer); ok {
			fmt.Fprintf(b, "<%s %s>", t.Type, s.String())
		} else {
			fmt.Fprintf(b, "<%s>", t.Type)
		}
	case form:
		printForm(b, t)
	default:
		fmt.Fprintf(b, "%v", obj)
	}
}

func printList(b *strings.Builder, l *List) {
	if l.quoted && len(l.items) == 1 {
		switch inner := l.items[0].(type) {
		case Symbol:
			b.WriteByte('\'')
			printTo(b, inner)
			return
		case *List:
			if !inner.quoted {
				b.WriteByte('\'')
				printTo(b, inner)
				return
			}
		}
	}
	lb, rb := byte('('), byte(')')
	if l.quoted {
		lb, rb = '[', ']'
	}
	b.WriteByte(lb)
	printSeq(b, l.items)
	b.WriteByte(rb)
}

func printSeq(b *strings.Builder, items []Object) {
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		printTo(b, item)
	}
}

func printEnv(b *strings.Builder, e *Env) {
	b.WriteByte('{')
	for i, name := range e.Names() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "(%s ", name)
		printTo(b, e.vars[name].value)
		b.WriteByte(')')
	}
	b.WriteByte('}')
}

func printLambda(b *strings.Builder, params []string, doc string, body []Object) {
	fmt.Fprintf(b, "(lambda (%s)", strings.Join(params, " "))
	if doc != "" {
		b.WriteByte(' ')
		b.WriteString(quoteString(doc))
	}
	if len(body) > 0 {
		b.WriteByte(' ')
		printSeq(b, body)
	}
	b.WriteByte(')')
}

func printForm(b *strings.Builder, f form) {
	switch t := f.(type) {
	case *IfExpr:
		b.WriteString("(if ")
		printTo(b, t.Condition)
		b.WriteByte(' ')
		printTo(b, t.Consequent)
		if t.Alternative != nil {
			b.WriteByte(' ')
			printTo(b, t.Alternative)
		}
		b.WriteByte(')')
	case *CondExpr:
		b.WriteString("(cond")
		for _, c := range t.Clauses {
			b.WriteString(" (")
			printTo(b, c.Predicate)
			if len(c.Body) > 0 {
				b.WriteByte(' ')
				printSeq(b, c.Body)
			}
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case *AndExpr:
		b.WriteString("(and")
		for _, c := range t.Conditions {
			b.WriteByte(' ')
			printTo(b, c)
		}
		b.WriteByte(')')
	case *OrExpr:
		b.WriteString("(or")
		for _, c := range t.Conditions {
			b.WriteByte(' ')
			printTo(b, c)
		}
		b.WriteByte(')')
	case *DefineExpr:
		if l, ok := t.Value.(*LambdaExpr); ok && t.Force == nil {
			fmt.Fprintf(b, "(define (%s", t.Name)
			for _, p := range l.Params {
				b.WriteByte(' ')
				b.WriteString(p)
			}
			b.WriteByte(')')
			if l.Doc != "" {
				b.WriteByte(' ')
				b.WriteString(quoteString(l.Doc))
			}
			for _, expr := range l.Body {
				b.WriteByte(' ')
				printTo(b, expr)
			}
			b.WriteByte(')')
			return
		}
		fmt.Fprintf(b, "(define %s ", t.Name)
		printTo(b, t.Value)
		if t.Force != nil {
			b.WriteByte(' ')
			printTo(b, t.Force)
		}
		b.WriteByte(')')
	case *LambdaExpr:
		printLambda(b, t.Params, t.Doc, t.Body)
	case *EnvExpr:
		b.WriteByte('{')
		b.WriteString(t.Context)
		for i, name := range t.Names {
			if i > 0 || t.Context != "" {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s ", name)
			printTo(b, t.Values[i])
			b.WriteByte(')')
		}
		b.WriteByte('}')
	case evaluated:
		printTo(b, t.value)
	}
}

// formatDouble always keeps a decimal point or exponent so the text reads
// back as a double
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if ch < 0x20 || ch == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// PrintJSON renders a list or environment as JSON. Lists become arrays and
// environments objects with sorted keys.
func PrintJSON(obj Object) (string, error) {
	switch obj.(type) {
	case *List, *Env:
	default:
		return "", newError(TypeMismatch, "json: only lists and environments can be encoded, got %s", obj.Kind())
	}
	var b strings.Builder
	if err := jsonTo(&b, obj); err != nil {
		return "", err
	}
	return b.String(), nil
}

func jsonTo(b *strings.Builder, obj Object) error {
	switch t := obj.(type) {
	case NilValue:
		b.WriteString("null")
	case Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case Double:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return newError(TypeMismatch, "json: cannot encode %v", f)
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case String:
		return jsonString(b, string(t))
	case Symbol:
		return jsonString(b, string(t))
	case *List:
		b.WriteByte('[')
		for i, item := range t.Data() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := jsonTo(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *Env:
		b.WriteByte('{')
		for i, name := range t.Names() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := jsonString(b, name); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := jsonTo(b, t.vars[name].value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return newError(TypeMismatch, "json: cannot encode %s", obj.Kind())
	}
	return nil
}

func jsonString(b *strings.Builder, s string) error {
	enc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	b.Write(enc)
	return nil
}
