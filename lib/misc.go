package lib

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jpschroeder/glisp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func uuidBuiltins() []builtin {
	return []builtin{
		{"uuid", 0, 1, newUUID, "(uuid [compact]) random v4 uuid; compact drops the dashes"},
	}
}

func numberBuiltins() []builtin {
	return []builtin{
		{"format-number", 1, 3, formatNumber, "(format-number n [locale] [decimals]) groups digits the way locale does"},
	}
}

func newUUID(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	id := uuid.New().String()
	if args.Len() == 1 {
		compact, err := glisp.ArgBool(env, args, 0)
		if err != nil {
			return nil, err
		}
		if compact {
			id = strings.ReplaceAll(id, "-", "")
		}
	}
	return glisp.String(id), nil
}

func formatNumber(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	n, err := glisp.ArgNumber(env, args, 0, "format-number")
	if err != nil {
		return nil, err
	}
	locale := "en"
	if args.Len() >= 2 {
		if locale, err = glisp.ArgString(env, args, 1, "format-number"); err != nil {
			return nil, err
		}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, glisp.Errorf(glisp.Custom, "(format-number: unknown locale %q)", locale)
	}

	var opts []number.Option
	if args.Len() == 3 {
		d, err := glisp.ArgInt(env, args, 2, "format-number")
		if err != nil {
			return nil, err
		}
		opts = append(opts, number.MinFractionDigits(int(d)), number.MaxFractionDigits(int(d)))
	}

	var value any
	switch t := n.(type) {
	case glisp.Int:
		value = int64(t)
	case glisp.Double:
		value = float64(t)
	}
	p := message.NewPrinter(tag)
	return glisp.String(p.Sprintf("%v", number.Decimal(value, opts...))), nil
}
