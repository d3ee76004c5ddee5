package icu

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/hazyhaar/unifold/pkg/fold"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
)

// DriverName is the pure-Go driver Register installs collations and functions on.
const DriverName = "sqlite"

// Options selects what Register installs.
type Options struct {
	// Collations maps a collation name to a BCP 47 tag, e.g. "russian": "ru-RU".
	Collations map[string]string `yaml:"collations"`
	// Extensions lists loadable libraries for the cgo driver. Ignored by Register.
	Extensions []string `yaml:"extensions"`
}

var (
	registerMu sync.Mutex
	registered = make(map[string]string) // key -> locale tag ("" for functions and unicase)
)

// Register installs, on every connection the pure-Go driver opens from now
// on, the unicase collation, one case-insensitive collation per
// opts.Collations entry, Unicode-aware lower() and upper(), and icu_version().
// It is safe to call more than once; names already installed are skipped. Mapping
// an installed collation name to a different locale is an error.
func Register(opts Options) error {
	registerMu.Lock()
	defer registerMu.Unlock()

	collations, err := buildCollations(opts)
	if err != nil {
		return err
	}
	for name := range opts.Collations {
		prev, ok := registered["collation:"+name]
		if tag := collationTag(opts, name); ok && prev != tag {
			return fmt.Errorf("collation %s already registered for %s, not %s", name, prev, tag)
		}
	}
	for name, cmp := range collations {
		if _, ok := registered["collation:"+name]; ok {
			continue
		}
		if err := sqlite.RegisterCollationUtf8(name, cmp); err != nil {
			return fmt.Errorf("register collation %s: %w", name, err)
		}
		registered["collation:"+name] = collationTag(opts, name)
	}

	for name, fn := range scalarFunctions() {
		if _, ok := registered["func:"+name]; ok {
			continue
		}
		impl := fn.impl
		err := sqlite.RegisterDeterministicScalarFunction(name, fn.nArgs,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				vals := make([]any, len(args))
				for i, a := range args {
					vals[i] = a
				}
				return impl(vals), nil
			})
		if err != nil {
			return fmt.Errorf("register function %s: %w", name, err)
		}
		registered["func:"+name] = ""
	}
	return nil
}

// collationTag returns the canonical locale of a configured collation, or ""
// for names Options does not map (unicase). Callers have parsed the tags.
func collationTag(opts Options, name string) string {
	tag, ok := opts.Collations[name]
	if !ok {
		return ""
	}
	return language.Make(tag).String()
}

// buildCollations returns the collations Register and the cgo driver install.
func buildCollations(opts Options) (map[string]func(a, b string) int, error) {
	out := map[string]func(a, b string) int{
		string(StrategyUnicase): CompareUnicase,
	}
	for name, tag := range opts.Collations {
		t, err := language.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("collation %s: parse locale %q: %w", name, tag, err)
		}
		out[name] = NewLocaleCollation(t)
	}
	return out, nil
}

type scalarFunction struct {
	nArgs int32
	impl  func(args []any) any
}

func scalarFunctions() map[string]scalarFunction {
	return map[string]scalarFunction{
		"lower":       {1, func(args []any) any { return LowerValue(args[0]) }},
		"upper":       {1, func(args []any) any { return UpperValue(args[0]) }},
		"icu_version": {0, func([]any) any { return Version() }},
	}
}

// CompareUnicase compares two strings rune by rune after lowercasing.
func CompareUnicase(a, b string) int {
	return strings.Compare(
		strings.Map(unicode.ToLower, a),
		strings.Map(unicode.ToLower, b),
	)
}

// NewLocaleCollation returns a case-insensitive compare function for tag.
// A collate.Collator is not safe for concurrent use, so calls are serialized.
func NewLocaleCollation(tag language.Tag) func(a, b string) int {
	var mu sync.Mutex
	c := collate.New(tag, collate.IgnoreCase)
	return func(a, b string) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a, b)
	}
}

// LowerValue is the SQL lower() replacement. NULL stays NULL; other values are
// converted to text first, like the built-in.
func LowerValue(v any) any {
	s, ok := textValue(v)
	if !ok {
		return nil
	}
	return fold.NormalizeForSearch(s)
}

// UpperValue is the SQL upper() replacement.
func UpperValue(v any) any {
	s, ok := textValue(v)
	if !ok {
		return nil
	}
	return strings.ToUpper(s)
}

// Version identifies the Unicode tables the replacement functions use.
func Version() string {
	return "unifold unicode " + unicode.Version
}

func textValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	default:
		return fmt.Sprint(x), true
	}
}
