package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// predeclared identifiers the generated body may refer to.
var bodyBuiltins = []string{"nil", "new", "true", "false"}

// buildConstructor turns a StructSpec into the constructor to emit.
//
// Every non-blank field gets exactly one initializer, in declaration order.
// Required fields and non-optional fields without modifier become
// parameters; default fields get their zero value; optional fields get
// their absent sentinel.
func buildConstructor(s StructSpec) Constructor {
	c := Constructor{
		Name:       constructorName(s),
		StructName: s.Name,
		TypeParams: typeParamsDecl(s.TypeParams),
		TypeArgs:   typeArgs(s.TypeParams),
		Return:     s.Return,
	}
	if c.Return == "" {
		c.Return = ReturnPointer
	}

	reserved := reservedNames(s)
	for _, f := range s.Fields {
		var value string
		switch {
		case isParameter(f):
			value = uniqueName(paramName(f.Name), reserved)
			reserved[value] = true
			c.Params = append(c.Params, Param{Name: value, Type: f.Type})
		case f.Modifier == ModifierDefault:
			value = f.Zero
		default:
			value = f.Absent
		}
		c.Initializers = append(c.Initializers, Initializer{Field: f.Name, Value: value})
	}
	return c
}

func isParameter(f FieldSpec) bool {
	switch f.Modifier {
	case ModifierRequired:
		return true
	case ModifierDefault:
		return false
	}
	return !f.Optional
}

// constructorName applies the name and visibility overrides.
func constructorName(s StructSpec) string {
	name := s.FuncName
	if name == "" {
		name = "New" + upperFirst(s.Name)
	}
	visibility := s.Visibility
	if visibility == VisibilityInherit {
		visibility = VisibilityUnexported
		if token.IsExported(s.Name) {
			visibility = VisibilityExported
		}
	}
	if visibility == VisibilityExported {
		return upperFirst(name)
	}
	return lowerFirst(name)
}

func typeParamsDecl(params []TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func typeArgs(params []TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// reservedNames collects the identifiers a parameter must not shadow:
// the struct, its type parameters, builtins and every identifier used by
// the non-parameter initializers.
func reservedNames(s StructSpec) map[string]bool {
	reserved := map[string]bool{s.Name: true}
	for _, p := range s.TypeParams {
		reserved[p.Name] = true
	}
	for _, b := range bodyBuiltins {
		reserved[b] = true
	}
	for _, f := range s.Fields {
		if isParameter(f) {
			continue
		}
		value := f.Absent
		if f.Modifier == ModifierDefault {
			value = f.Zero
		}
		for _, ident := range exprIdents(value) {
			reserved[ident] = true
		}
	}
	return reserved
}

func exprIdents(src string) []string {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil
	}
	var idents []string
	ast.Inspect(expr, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	return idents
}

func uniqueName(name string, reserved map[string]bool) string {
	for token.IsKeyword(name) || reserved[name] {
		name += "_"
	}
	return name
}

// paramName lower-cases the leading initialism of a field name:
// Title -> title, ID -> id, URLs -> urls, HTTPClient -> httpClient.
func paramName(field string) string {
	runes := []rune(field)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return field
	case n == len(runes) || n == 1:
	case n == len(runes)-1 && runes[n] == 's':
		n = len(runes) // plural initialism: IDs -> ids
	default:
		n-- // keep the first letter of the next word
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
