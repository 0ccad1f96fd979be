package main

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// parseUntyped builds a package without type information, the state a
// broken package is left in after loading.
func parseUntyped(t *testing.T, src string) (*packages.Package, *FileData, DiagnosticList) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "movies.go", src, parser.ParseComments)
	require.NoError(t, err)

	pkg := &packages.Package{Name: file.Name.Name, Fset: fset}
	var diags DiagnosticList
	data := collectTmplData(pkg, file, defaultTagKey, &diags)
	return pkg, data, diags
}

func TestCollectTmplDataWithoutTypes(t *testing.T) {
	_, data, diags := parseUntyped(t, `package movies

import (
	_ "embed"
	. "strings"
	dbsql "database/sql"
	"time"
)

type (
	// Grouped declarations carry the directive on the spec.
	//
	//ctor:gen
	Movie struct {
		Title    string
		Year     *uint16
		Comment  dbsql.NullString
		Released time.Time `+"`ctor:\"default\"`"+`
	}

	//ctor:gen
	Tag struct{ A, B int }
)
`)
	require.Empty(t, diags)
	require.NotNil(t, data)

	assert.Equal(t, "movies", data.PackageName)
	assert.Equal(t, []string{`dbsql "database/sql"`, `"time"`}, data.Imports)
	require.Len(t, data.Constructors, 2)

	movie := data.Constructors[0]
	assert.Equal(t, "NewMovie", movie.Name)
	assert.Equal(t, []string{"title string"}, movie.ParamList())
	assert.Equal(t, []Initializer{
		{Field: "Title", Value: "title"},
		{Field: "Year", Value: "nil"},
		{Field: "Comment", Value: "dbsql.NullString{}"},
		{Field: "Released", Value: "*new(time.Time)"},
	}, movie.Initializers)

	tag := data.Constructors[1]
	assert.Equal(t, []string{"a int", "b int"}, tag.ParamList())
}

func TestCollectTmplDataSkipsUnannotated(t *testing.T) {
	_, data, diags := parseUntyped(t, `package movies

// Movie has no directive.
type Movie struct {
	Title string `+"`ctor:\"bogus\"`"+`
}
`)
	assert.Empty(t, diags)
	assert.Nil(t, data)
}

func TestCollectTmplDataDirectiveOnDeclDoc(t *testing.T) {
	_, data, diags := parseUntyped(t, `package movies

//ctor:gen return=value
type Movie struct {
	Title string
}
`)
	require.Empty(t, diags)
	require.NotNil(t, data)
	assert.Equal(t, "Movie", data.Constructors[0].ResultType())
}

func TestCollectTmplDataReportsEveryProblem(t *testing.T) {
	_, data, diags := parseUntyped(t, `package movies

//ctor:gen visibility=friend
type Movie struct {
	Title string `+"`ctor:\"required,default\"`"+`
	Year  *int   `+"`ctor:\"optional\"`"+`
}

//ctor:gen
type Alias = struct{ A int }

//ctor:gen
type Fine struct{ A int }
`)
	assert.Len(t, diags, 4)
	require.NotNil(t, data)
	require.Len(t, data.Constructors, 1)
	assert.Equal(t, "NewFine", data.Constructors[0].Name)
}

func TestEmbeddedName(t *testing.T) {
	tests := map[string]string{
		"Base":            "Base",
		"*Base":           "Base",
		"pkg.Base":        "Base",
		"*pkg.Base":       "Base",
		"Base[int]":       "Base",
		"Base[int, bool]": "Base",
	}
	for src, want := range tests {
		expr, err := parser.ParseExpr(src)
		require.NoError(t, err)
		assert.Equal(t, want, embeddedName(expr), src)
	}
}
