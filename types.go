package main

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"
)

const sqlPkgPath = "database/sql"

// inferOptional reports whether a field type stands for "value or absence"
// and returns the expression of its absent sentinel.
//
// Pointers are absent as nil; database/sql Null wrappers as their zero
// literal. Without type information the decision is made on syntax alone.
func inferOptional(typ types.Type, expr ast.Expr, file *ast.File, typeText string) (bool, string) {
	if typ != nil {
		if _, ok := typ.Underlying().(*types.Pointer); ok {
			return true, "nil"
		}
		if isSQLNull(typ) {
			return true, typeText + "{}"
		}
		return false, ""
	}

	switch e := expr.(type) {
	case *ast.StarExpr:
		return true, "nil"
	case *ast.IndexExpr:
		if isSQLNullExpr(e.X, file) {
			return true, typeText + "{}"
		}
	case *ast.SelectorExpr:
		if isSQLNullExpr(e, file) {
			return true, typeText + "{}"
		}
	}
	return false, ""
}

func isSQLNull(typ types.Type) bool {
	named, ok := types.Unalias(typ).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == sqlPkgPath && strings.HasPrefix(obj.Name(), "Null")
}

// isSQLNullExpr matches <pkg>.Null* where <pkg> is the file's name for database/sql.
func isSQLNullExpr(expr ast.Expr, file *ast.File) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok || !strings.HasPrefix(sel.Sel.Name, "Null") {
		return false
	}
	name, imported := importName(file, sqlPkgPath)
	return imported && x.Name == name
}

// importName returns the local name under which file imports path.
func importName(file *ast.File, path string) (string, bool) {
	if file == nil {
		return "", false
	}
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != path {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name, true
		}
		return path[strings.LastIndex(path, "/")+1:], true
	}
	return "", false
}

// zeroValue returns an expression that produces the zero value of typ.
// `*new(T)` is used whenever no shorter literal fits.
func zeroValue(typ types.Type, typeText string) string {
	fallback := "*new(" + typeText + ")"
	if typ == nil {
		return fallback
	}
	if _, ok := types.Unalias(typ).(*types.TypeParam); ok {
		return fallback
	}

	switch u := typ.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsBoolean != 0:
			return "false"
		case info&types.IsString != 0:
			return `""`
		case info&types.IsNumeric != 0:
			return "0"
		case u.Kind() == types.UnsafePointer:
			return "nil"
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return "nil"
	case *types.Struct, *types.Array:
		return typeText + "{}"
	}
	return fallback
}
