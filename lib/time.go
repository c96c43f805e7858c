package lib

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/jpschroeder/glisp"
)

func timeBuiltins() []builtin {
	return []builtin{
		{"now", 0, 0, now, "(now) current time"},
		{"date-format", 2, 3, dateFormat, "(date-format t layout [locale]) formats with a Go layout; month and day names follow locale"},
		{"date-parse", 2, 3, dateParse, "(date-parse layout s [locale]) parses a time"},
		{"date-unix", 1, 1, dateUnix, "(date-unix t) seconds since the epoch"},
	}
}

var locales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"sv":    monday.LocaleSvSE,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"uk":    monday.LocaleUkUA,
}

func mondayLocale(env *glisp.Env, args *glisp.List, i int, name string) (monday.Locale, error) {
	if args.Len() <= i {
		return monday.LocaleEnUS, nil
	}
	s, err := glisp.ArgString(env, args, i, name)
	if err != nil {
		return "", err
	}
	key := strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	if loc, ok := locales[key]; ok {
		return loc, nil
	}
	return "", glisp.Errorf(glisp.Custom, "(%s: unknown locale %q)", name, s)
}

// timeArg accepts a time object or unix seconds
func timeArg(env *glisp.Env, args *glisp.List, i int, name string) (time.Time, error) {
	v, err := glisp.Arg(env, args, i)
	if err != nil {
		return time.Time{}, err
	}
	switch t := v.(type) {
	case *glisp.Opaque:
		if tm, ok := t.Value.(time.Time); ok {
			return tm, nil
		}
	case glisp.Int:
		return time.Unix(int64(t), 0).UTC(), nil
	}
	return time.Time{}, glisp.Requires(name, "time", i)
}

func now(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	return &glisp.Opaque{Type: "time", Value: time.Now()}, nil
}

func dateFormat(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	t, err := timeArg(env, args, 0, "date-format")
	if err != nil {
		return nil, err
	}
	layout, err := glisp.ArgString(env, args, 1, "date-format")
	if err != nil {
		return nil, err
	}
	loc, err := mondayLocale(env, args, 2, "date-format")
	if err != nil {
		return nil, err
	}
	return glisp.String(monday.Format(t, layout, loc)), nil
}

func dateParse(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	layout, err := glisp.ArgString(env, args, 0, "date-parse")
	if err != nil {
		return nil, err
	}
	s, err := glisp.ArgString(env, args, 1, "date-parse")
	if err != nil {
		return nil, err
	}
	loc, err := mondayLocale(env, args, 2, "date-parse")
	if err != nil {
		return nil, err
	}
	t, err := monday.ParseInLocation(layout, s, time.UTC, loc)
	if err != nil {
		return nil, glisp.Errorf(glisp.Custom, "date-parse: %v", err)
	}
	return &glisp.Opaque{Type: "time", Value: t}, nil
}

func dateUnix(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	t, err := timeArg(env, args, 0, "date-unix")
	if err != nil {
		return nil, err
	}
	return glisp.Int(t.Unix()), nil
}
