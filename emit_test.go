package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func movieSpec() StructSpec {
	return StructSpec{
		Name: "Movie",
		Fields: []FieldSpec{
			{Name: "Title", Type: "string", Zero: `""`},
			{Name: "Year", Type: "*uint16", Optional: true, Absent: "nil", Zero: "nil"},
		},
		Return: ReturnPointer,
	}
}

func TestBuildConstructorOptionalFieldIsAbsent(t *testing.T) {
	c := buildConstructor(movieSpec())

	assert.Equal(t, "NewMovie", c.Name)
	assert.Equal(t, []Param{{Name: "title", Type: "string"}}, c.Params)
	assert.Equal(t, []Initializer{
		{Field: "Title", Value: "title"},
		{Field: "Year", Value: "nil"},
	}, c.Initializers)
	assert.Equal(t, "*Movie", c.ResultType())
}

func TestBuildConstructorRequiredOptional(t *testing.T) {
	s := movieSpec()
	s.Fields[1].Modifier = ModifierRequired
	c := buildConstructor(s)

	assert.Equal(t, []Param{
		{Name: "title", Type: "string"},
		{Name: "year", Type: "*uint16"},
	}, c.Params)
	assert.Equal(t, []Initializer{
		{Field: "Title", Value: "title"},
		{Field: "Year", Value: "year"},
	}, c.Initializers)
}

func TestBuildConstructorDefault(t *testing.T) {
	s := movieSpec()
	s.Fields[0].Modifier = ModifierDefault
	c := buildConstructor(s)

	assert.Empty(t, c.Params)
	assert.Equal(t, []Initializer{
		{Field: "Title", Value: `""`},
		{Field: "Year", Value: "nil"},
	}, c.Initializers)
}

func TestBuildConstructorEmptyStruct(t *testing.T) {
	c := buildConstructor(StructSpec{Name: "Empty"})

	assert.Equal(t, "NewEmpty", c.Name)
	assert.Empty(t, c.Params)
	assert.Empty(t, c.Initializers)
	assert.Equal(t, ReturnPointer, c.Return)
}

func TestBuildConstructorOverridesOnlyTouchName(t *testing.T) {
	base := buildConstructor(movieSpec())

	s := movieSpec()
	s.FuncName = "fromTitle"
	s.Visibility = VisibilityExported
	c := buildConstructor(s)

	assert.Equal(t, "FromTitle", c.Name)
	assert.Equal(t, base.Params, c.Params)
	assert.Equal(t, base.Initializers, c.Initializers)
	assert.Equal(t, base.Return, c.Return)
}

func TestConstructorName(t *testing.T) {
	tests := []struct {
		name       string
		structName string
		funcName   string
		visibility VisibilityEnum
		want       string
	}{
		{"exported struct", "Movie", "", VisibilityInherit, "NewMovie"},
		{"unexported struct", "movie", "", VisibilityInherit, "newMovie"},
		{"unexported override", "Movie", "", VisibilityUnexported, "newMovie"},
		{"exported override on unexported struct", "movie", "", VisibilityExported, "NewMovie"},
		{"custom name inherits", "Movie", "fromName", VisibilityInherit, "FromName"},
		{"custom name unexported", "Movie", "FromName", VisibilityUnexported, "fromName"},
		{"custom name on unexported struct", "movie", "FromName", VisibilityInherit, "fromName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := constructorName(StructSpec{Name: tt.structName, FuncName: tt.funcName, Visibility: tt.visibility})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildConstructorGeneric(t *testing.T) {
	s := StructSpec{
		Name: "Pair",
		TypeParams: []TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V", Constraint: "any"},
		},
		Fields: []FieldSpec{
			{Name: "Key", Type: "K", Zero: "*new(K)"},
			{Name: "Value", Type: "V", Zero: "*new(V)", Modifier: ModifierDefault},
		},
		Return: ReturnValue,
	}
	c := buildConstructor(s)

	assert.Equal(t, "[K comparable, V any]", c.TypeParams)
	assert.Equal(t, "[K, V]", c.TypeArgs)
	assert.Equal(t, "Pair[K, V]", c.ResultType())
	assert.Equal(t, []string{"key K"}, c.ParamList())
	assert.Equal(t, "*new(V)", c.Initializers[1].Value)
}

func TestBuildConstructorParamNames(t *testing.T) {
	s := StructSpec{
		Name: "Request",
		Fields: []FieldSpec{
			{Name: "Type", Type: "string"},
			{Name: "ID", Type: "int"},
			{Name: "HTTPClient", Type: "*http.Client", Modifier: ModifierRequired},
			{Name: "Request", Type: "string"},
			{Name: "request", Type: "string"},
			{Name: "Time", Type: "time.Time"},
			{Name: "Created", Type: "time.Time", Modifier: ModifierDefault, Zero: "time.Time{}"},
			{Name: "Nil", Type: "bool"},
		},
	}
	c := buildConstructor(s)

	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"type_", "id", "httpClient", "request", "request_", "time_", "nil_"}, names)
}

func TestParamName(t *testing.T) {
	tests := map[string]string{
		"Title":      "title",
		"ID":         "id",
		"URL":        "url",
		"HTTPClient": "httpClient",
		"IDs":        "ids",
		"URLs":       "urls",
		"Is":         "is",
		"HTTPSites":  "httpSites",
		"year":       "year",
		"X":          "x",
		"_hidden":    "_hidden",
	}
	for in, want := range tests {
		assert.Equal(t, want, paramName(in), in)
	}
}
