package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//          ┌─────────────────────────────────────────────────────────┐
//          │                          Flag                           │
//          └─────────────────────────────────────────────────────────┘

const rootLong = `go-ctor-gen generates a constructor for every struct marked with //ctor:gen.

Fields that are pointers or database/sql Null wrappers are left out of the
parameter list and start absent. Tag a field with ctor:"required" to take it
as a parameter anyway, or with ctor:"default" to start it at its zero value.

Struct directive arguments:
  name="FromName"           function name (default New<Struct>)
  visibility="unexported"   exported or unexported (default: same as the struct)
  return="value"            pointer or value (default: pointer)

An explicit name follows the visibility too: name="FromName" on an unexported
struct yields fromName unless visibility="exported" is also given.

Typical use:
  //go:generate go-ctor-gen`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "go-ctor-gen",
		Short:         "Generate constructors for annotated Go structs",
		Long:          rootLong,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			initLogger(v.GetBool(keyVerbose))
			defer func() { _ = logger.Sync() }()

			opts := funcOptionsFromConfig(v)
			opts = append(opts, Output(cmd.OutOrStdout()))
			return Process(opts...)
		},
	}

	flags := cmd.Flags()
	flags.String(keyDir, cwd, "directory to process")
	flags.BoolP(keyRecursive, "r", false, "process directory recursively")
	flags.String(keySuffix, defaultSuffix, "suffix of generated files")
	flags.String(keyTag, defaultTagKey, "struct tag key holding field directives")
	flags.Bool(flagDryRun, false, "print generated code instead of writing files")
	flags.BoolP(keyVerbose, "v", false, "enable debug logging")
	return cmd
}

//          ┌─────────────────────────────────────────────────────────┐
//          │                       Func Option                       │
//          └─────────────────────────────────────────────────────────┘

// Definition
// ────────────────────────────────────────────────────────────────────────────────

const defaultSuffix = "_ctor_gen.go"

type Options struct {
	Dir       string    // Default is the current working directory.
	Recursive bool      // Default is false.
	Suffix    string    // Default is _ctor_gen.go.
	TagKey    string    // Default is ctor.
	DryRun    bool      // Default is false.
	Output    io.Writer // Dry-run destination. Default is stdout.
}

type FuncOptions []FuncOption

func (fs FuncOptions) New() *Options {
	options := &Options{
		Dir:       cwd,
		Recursive: false,
		Suffix:    defaultSuffix,
		TagKey:    defaultTagKey,
		Output:    os.Stdout,
	}
	for _, f := range fs {
		f(options)
	}

	return options
}

type FuncOption func(o *Options)

// Options
// ────────────────────────────────────────────────────────────────────────────────

// Dir sets the directory option. Default is the current working directory.
func Dir(dir string) FuncOption {
	return func(o *Options) {
		o.Dir = filepath.Clean(dir)
	}
}

// Recursive sets the recursive option. Default is false.
func Recursive(recursive bool) FuncOption {
	return func(o *Options) {
		o.Recursive = recursive
	}
}

// Suffix sets the generated file suffix. Empty keeps the default.
func Suffix(suffix string) FuncOption {
	return func(o *Options) {
		if suffix != "" {
			o.Suffix = suffix
		}
	}
}

// TagKey sets the struct tag key read for field directives. Empty keeps the default.
func TagKey(key string) FuncOption {
	return func(o *Options) {
		if key != "" {
			o.TagKey = key
		}
	}
}

// DryRun prints the generated files to Output instead of writing them.
func DryRun(dryRun bool) FuncOption {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// Output sets the dry-run destination.
func Output(w io.Writer) FuncOption {
	return func(o *Options) {
		if w != nil {
			o.Output = w
		}
	}
}
