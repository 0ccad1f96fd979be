package main

import (
	"go/token"
	"go/types"
)

// FieldModifier is the per-field directive read from the `ctor` struct tag.
type FieldModifier int

const (
	ModifierNone FieldModifier = iota
	ModifierRequired
	ModifierDefault
)

func (m FieldModifier) String() string {
	switch m {
	case ModifierRequired:
		return "required"
	case ModifierDefault:
		return "default"
	default:
		return "none"
	}
}

// VisibilityEnum controls the capitalization of the generated function name.
type VisibilityEnum string

func (v VisibilityEnum) String() string {
	return string(v)
}

const (
	VisibilityInherit    VisibilityEnum = ""
	VisibilityExported   VisibilityEnum = "exported"
	VisibilityUnexported VisibilityEnum = "unexported"
)

// ReturnEnum selects whether the constructor returns *T or T.
type ReturnEnum string

func (r ReturnEnum) String() string {
	return string(r)
}

const (
	ReturnPointer ReturnEnum = "pointer"
	ReturnValue   ReturnEnum = "value"
)

// FieldSpec represents a field in an annotated struct
type FieldSpec struct {
	Name     string
	Type     string     // source text of the declared type
	TypeInfo types.Type // nil when the type checker could not resolve it
	Modifier FieldModifier
	Optional bool   // pointer or sql.Null* wrapper
	Absent   string // absent sentinel, set when Optional
	Zero     string // zero value expression
	Embedded bool
	Pos      token.Position
}

// StructSpec holds an annotated struct and its directives
type StructSpec struct {
	Name       string
	TypeParams []TypeParam
	Fields     []FieldSpec
	FuncName   string         // empty means New<Name>
	Visibility VisibilityEnum // empty means inherited from the struct
	Return     ReturnEnum
	Pos        token.Position
}

// TypeParam is one type parameter of a generic struct.
type TypeParam struct {
	Name       string
	Constraint string
}

// Param is one argument of the generated constructor.
type Param struct {
	Name string
	Type string
}

// Initializer is one keyed element of the generated composite literal.
type Initializer struct {
	Field string
	Value string
}

// Constructor is the function emitted for one StructSpec.
type Constructor struct {
	Name         string
	StructName   string
	TypeParams   string // "[K comparable, V any]" or empty
	TypeArgs     string // "[K, V]" or empty
	Params       []Param
	Initializers []Initializer
	Return       ReturnEnum
}

// FileData holds necessary data to generate the target file
type FileData struct {
	BuildConstraints []string
	PackageName      string
	Imports          []string
	Constructors     []Constructor
}
