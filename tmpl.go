package main

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

const generatedHeader = "// Code generated by go-ctor-gen; DO NOT EDIT."

const ctorTmpl = generatedHeader + `
{{ range .BuildConstraints }}
{{ . }}
{{ end }}
package {{ .PackageName }}
{{ if .Imports }}
import (
{{- range .Imports }}
	{{ . }}
{{- end }}
)
{{ end }}
{{- range .Constructors }}
// {{ .Name }} constructs and returns a new {{ .StructName }}.
func {{ .Name }}{{ .TypeParams }}({{ join ", " .ParamList }}) {{ .ResultType }} {
	return {{ if eq .Return "pointer" }}&{{ end }}{{ .StructName }}{{ .TypeArgs }}{
{{- if .Initializers }}
{{- range .Initializers }}
		{{ .Field }}: {{ .Value }},
{{- end }}
	}
{{- else }}}{{ end }}
}
{{ end }}`

var fileTmpl = template.Must(template.New("ctor").Funcs(sprig.TxtFuncMap()).Parse(ctorTmpl))

// ParamList renders each parameter as "name Type".
func (c Constructor) ParamList() []string {
	list := make([]string, len(c.Params))
	for i, p := range c.Params {
		list[i] = p.Name + " " + p.Type
	}
	return list
}

// ResultType is *S[...] or S[...] depending on the return kind.
func (c Constructor) ResultType() string {
	t := c.StructName + c.TypeArgs
	if c.Return == ReturnValue {
		return t
	}
	return "*" + t
}

// executeTmpl renders the unformatted source of the generated file.
func executeTmpl(data *FileData, filePath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, "error executing template for %s", filePath)
	}
	return buf.Bytes(), nil
}
