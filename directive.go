package main

import (
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// structDirectivePrefix marks a struct for constructor generation.
const structDirectivePrefix = "//ctor:gen"

const defaultTagKey = "ctor"

// structDirective is the parsed form of a //ctor:gen comment.
type structDirective struct {
	FuncName   string
	Visibility VisibilityEnum
	Return     ReturnEnum
}

// findStructDirective returns the first //ctor:gen comment of the given doc groups.
func findStructDirective(groups ...*ast.CommentGroup) *ast.Comment {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if isStructDirective(c.Text) {
				return c
			}
		}
	}
	return nil
}

func isStructDirective(text string) bool {
	rest, ok := strings.CutPrefix(text, structDirectivePrefix)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// parseStructDirective interprets the arguments of a //ctor:gen comment.
// Problems are reported to diags; ok is false when at least one was found.
func parseStructDirective(text string, pos token.Position, subject string, diags *DiagnosticList) (d structDirective, ok bool) {
	d.Return = ReturnPointer
	ok = true

	args := strings.TrimSpace(strings.TrimPrefix(text, structDirectivePrefix))
	words, err := shellquote.Split(args)
	if err != nil {
		diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, args, "cannot split arguments: %v", err))
		return d, false
	}

	seen := make(map[string]bool, 3)
	for _, word := range joinAssignments(words) {
		key, value, hasValue := strings.Cut(word, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if seen[key] {
			diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, word, "%s is given more than once", key))
			ok = false
			continue
		}
		seen[key] = true

		switch key {
		case "name", "visibility", "return":
		default:
			diags.Add(newDiagnostic(ErrUnknownDirective, pos, subject, word,
				"unknown key %q, expected one of name, visibility, return", key))
			ok = false
			continue
		}

		if !hasValue || value == "" {
			diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, word, "%s requires a value, e.g. %s=%q", key, key, exampleValue(key)))
			ok = false
			continue
		}

		switch key {
		case "name":
			if !token.IsIdentifier(value) || value == "_" {
				diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, word, "%q is not a valid Go identifier", value))
				ok = false
				continue
			}
			d.FuncName = value
		case "visibility":
			v, valid := parseVisibility(value)
			if !valid {
				diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, word,
					"visibility must be %q or %q, got %q", VisibilityExported, VisibilityUnexported, value))
				ok = false
				continue
			}
			d.Visibility = v
		case "return":
			r := ReturnEnum(value)
			if r != ReturnPointer && r != ReturnValue {
				diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, word,
					"return must be %q or %q, got %q", ReturnPointer, ReturnValue, value))
				ok = false
				continue
			}
			d.Return = r
		}
	}
	return d, ok
}

// joinAssignments glues `name = "x"`, split into three words, back into `name=x`.
// A word that already carries its own `=` is never joined, so `name=""` stays empty.
func joinAssignments(words []string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		word := words[i]
		if !strings.Contains(word, "=") && i+1 < len(words) && strings.HasPrefix(words[i+1], "=") {
			i++
			word += words[i]
			if words[i] == "=" && i+1 < len(words) {
				i++
				word += words[i]
			}
		}
		out = append(out, word)
	}
	return out
}

func parseVisibility(s string) (VisibilityEnum, bool) {
	switch strings.ToLower(s) {
	case "exported", "public":
		return VisibilityExported, true
	case "unexported", "private":
		return VisibilityUnexported, true
	}
	return VisibilityInherit, false
}

func exampleValue(key string) string {
	switch key {
	case "visibility":
		return VisibilityUnexported.String()
	case "return":
		return ReturnValue.String()
	default:
		return "FromName"
	}
}

// parseFieldTag reads the modifier of a field from its struct tag literal.
func parseFieldTag(lit *ast.BasicLit, tagKey string, pos token.Position, subject string, diags *DiagnosticList) (FieldModifier, bool) {
	if lit == nil {
		return ModifierNone, true
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, lit.Value, "cannot unquote struct tag: %v", err))
		return ModifierNone, false
	}
	value, found := reflect.StructTag(raw).Lookup(tagKey)
	if !found {
		if !mentionsTagKey(raw, tagKey) {
			return ModifierNone, true
		}
		if err := checkTagSyntax(raw); err != nil {
			diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, raw, "%v", err))
			return ModifierNone, false
		}
		return ModifierNone, true
	}

	required, deflt, ok := false, false, true
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, _, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)

		var flag *bool
		switch name {
		case "required":
			flag = &required
		case "default":
			flag = &deflt
		default:
			diags.Add(newDiagnostic(ErrUnknownDirective, pos, subject, item,
				"unknown %s tag option %q, expected required or default", tagKey, name))
			ok = false
			continue
		}
		if hasValue {
			diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, item, "%s takes no value", name))
			ok = false
			continue
		}
		if *flag {
			diags.Add(newDiagnostic(ErrMalformedDirective, pos, subject, item, "%s is given more than once", name))
			ok = false
			continue
		}
		*flag = true
	}

	if required && deflt {
		diags.Add(newDiagnostic(ErrConflictingDirective, pos, subject, value,
			"field cannot use required and default at the same time"))
		return ModifierNone, false
	}
	switch {
	case required:
		return ModifierRequired, ok
	case deflt:
		return ModifierDefault, ok
	}
	return ModifierNone, ok
}

// mentionsTagKey reports whether key: starts one of the words of tag.
func mentionsTagKey(tag, key string) bool {
	for i := 0; ; {
		j := strings.Index(tag[i:], key+":")
		if j < 0 {
			return false
		}
		i += j
		if i == 0 || tag[i-1] == ' ' {
			return true
		}
		i++
	}
}

// checkTagSyntax scans key:"value" pairs with the grammar of go vet's
// structtag check and reports the first violation.
func checkTagSyntax(tag string) error {
	for tag != "" {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			break
		}
		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 {
			return errors.New("bad syntax for struct tag key")
		}
		if i+1 >= len(tag) || tag[i] != ':' {
			return errors.Newf("bad syntax for struct tag pair %q", tag[:i])
		}
		if tag[i+1] != '"' {
			return errors.Newf("bad syntax for struct tag value of %s, want %s:\"...\"", tag[:i], tag[:i])
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return errors.Newf("unterminated struct tag value of %s", key)
		}
		if _, err := strconv.Unquote(tag[:i+1]); err != nil {
			return errors.Newf("bad syntax for struct tag value of %s", key)
		}
		tag = tag[i+1:]
		if tag != "" && tag[0] != ' ' {
			return errors.Newf("struct tag pair %s is not followed by a space", key)
		}
	}
	return nil
}
