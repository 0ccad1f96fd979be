package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// loadPackages loads the package at the specified directory path with cache.
func loadPackages(dirPath string) (*loadedDir, error) {
	if result, ok := packageCache[dirPath]; ok {
		return result, nil
	}

	astFiles := &sync.Map{}
	cfg := &packages.Config{
		Mode: loadMode,
		Dir:  dirPath,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			if file, ok := astFiles.Load(filename); ok {
				return file.(*ast.File), nil
			}

			file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
			astFiles.Store(filename, file)
			return file, err
		},
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, errors.Wrapf(err, "error loading package for %s", dirPath)
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Debugw("package loaded with errors", "package", pkg.PkgPath, "error", e.Error())
		}
	}
	resp := &loadedDir{
		packages: pkgs,
		astFiles: astFiles,
	}

	packageCache[dirPath] = resp

	return resp, nil
}

// collector walks one file and interprets the directives of its structs.
type collector struct {
	pkg    *packages.Package
	file   *ast.File
	tagKey string
	diags  *DiagnosticList
}

func collectTmplData(pkg *packages.Package, node *ast.File, tagKey string, diags *DiagnosticList) *FileData {
	c := &collector{pkg: pkg, file: node, tagKey: tagKey, diags: diags}

	var ctors []Constructor
	for _, decl := range node.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			docs := []*ast.CommentGroup{typeSpec.Doc}
			if !genDecl.Lparen.IsValid() {
				docs = append(docs, genDecl.Doc)
			}
			directive := findStructDirective(docs...)
			if directive == nil {
				continue
			}

			s, ok := c.structSpec(typeSpec, directive)
			if !ok {
				continue
			}
			ctors = append(ctors, buildConstructor(s))
		}
	}

	// If no annotated struct found, skip file
	if len(ctors) == 0 {
		return nil
	}

	return &FileData{
		BuildConstraints: buildConstraints(node),
		PackageName:      node.Name.Name,
		Imports:          collectImports(node),
		Constructors:     ctors,
	}
}

// buildConstraints returns the //go:build and // +build lines above the
// package clause, so the output is compiled under the same conditions.
func buildConstraints(node *ast.File) []string {
	var lines []string
	for _, g := range node.Comments {
		if g.Pos() >= node.Package {
			break
		}
		for _, c := range g.List {
			if constraint.IsGoBuild(c.Text) || constraint.IsPlusBuild(c.Text) {
				lines = append(lines, c.Text)
			}
		}
	}
	return lines
}

func (c *collector) position(p token.Pos) token.Position {
	return c.pkg.Fset.Position(p)
}

// structSpec interprets the directives of one annotated type declaration.
// ok is false when any of them is invalid; the reasons are in c.diags.
func (c *collector) structSpec(typeSpec *ast.TypeSpec, directive *ast.Comment) (StructSpec, bool) {
	name := typeSpec.Name.Name
	subject := "struct " + name
	pos := c.position(directive.Pos())

	structType, isStruct := typeSpec.Type.(*ast.StructType)
	if !isStruct || typeSpec.Assign.IsValid() {
		c.diags.Add(newDiagnostic(ErrMalformedDirective, pos, "type "+name, structDirectivePrefix,
			"directive can only be attached to a struct type declaration"))
		return StructSpec{}, false
	}

	d, ok := parseStructDirective(directive.Text, pos, subject, c.diags)
	s := StructSpec{
		Name:       name,
		TypeParams: c.typeParams(typeSpec.TypeParams),
		FuncName:   d.FuncName,
		Visibility: d.Visibility,
		Return:     d.Return,
		Pos:        c.position(typeSpec.Pos()),
	}

	for _, field := range structType.Fields.List {
		fieldType := exprToString(c.pkg.Fset, field.Type)
		typ := c.typeOf(field.Type)
		optional, absent := inferOptional(typ, field.Type, c.file, fieldType)
		zero := zeroValue(typ, fieldType)

		names := make([]string, 0, len(field.Names))
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}
		embedded := len(names) == 0
		if embedded {
			names = append(names, embeddedName(field.Type))
		}

		for _, fieldName := range names {
			fieldPos := c.position(field.Pos())
			modifier, fieldOK := parseFieldTag(field.Tag, c.tagKey, fieldPos, fmt.Sprintf("field %s.%s", name, fieldName), c.diags)
			ok = ok && fieldOK
			if fieldName == "_" {
				continue
			}
			logger.Debugw("interpreted field", "struct", name, "field", fieldName, "modifier", modifier, "optional", optional)
			s.Fields = append(s.Fields, FieldSpec{
				Name:     fieldName,
				Type:     fieldType,
				TypeInfo: typ,
				Modifier: modifier,
				Optional: optional,
				Absent:   absent,
				Zero:     zero,
				Embedded: embedded,
				Pos:      fieldPos,
			})
		}
	}
	return s, ok
}

func (c *collector) typeOf(expr ast.Expr) types.Type {
	if c.pkg.TypesInfo == nil {
		return nil
	}
	typ := c.pkg.TypesInfo.TypeOf(expr)
	if typ == types.Typ[types.Invalid] {
		return nil
	}
	return typ
}

func (c *collector) typeParams(list *ast.FieldList) []TypeParam {
	if list == nil {
		return nil
	}
	var params []TypeParam
	for _, field := range list.List {
		constraint := exprToString(c.pkg.Fset, field.Type)
		for _, name := range field.Names {
			params = append(params, TypeParam{Name: name.Name, Constraint: constraint})
		}
	}
	return params
}

// collectImports extracts the import statements the generated file may need.
func collectImports(node *ast.File) (imports []string) {
	for _, imp := range node.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if path == "C" {
			continue
		}
		str := imp.Path.Value
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			str = imp.Name.Name + " " + str // import with alias
		}
		imports = append(imports, str)
	}
	return imports
}

// exprToString prints an expression (field type) as it appears in the source.
func exprToString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}

// embeddedName returns the implicit field name of an embedded type.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	case *ast.ParenExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}
