package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func Process(opts ...FuncOption) error {
	options := FuncOptions(opts).New()
	return process(options)
}

// generatedFile is one planned write (or removal of a stale output).
type generatedFile struct {
	source string
	path   string
	src    []byte
	count  int
	remove bool
}

// process plans every file first and writes only when the whole run is clean,
// so a directive error never leaves a partial set of constructors behind.
func process(o *Options) error {
	dirs, err := collectDirs(o.Dir, o.Recursive)
	if err != nil {
		return err
	}

	var (
		plan  []generatedFile
		diags DiagnosticList
	)
	for _, dir := range dirs {
		files, err := planDir(dir, o, &diags)
		if err != nil {
			return err
		}
		plan = append(plan, files...)
	}
	if err := diags.Err(); err != nil {
		return err
	}
	if plan, err = checkCollisions(plan); err != nil {
		return err
	}

	for _, f := range plan {
		if err := apply(f, o); err != nil {
			return err
		}
	}
	return nil
}

// collectDirs lists dir and, when recursive, every package directory below it.
func collectDirs(dir string, recursive bool) ([]string, error) {
	dirs := []string{dir}
	if !recursive {
		return dirs, nil
	}

	entrys, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading directory %s", dir)
	}

	for _, e := range entrys {
		if !e.IsDir() || ignoreDir(e.Name()) {
			continue
		}
		sub, err := collectDirs(filepath.Join(dir, e.Name()), recursive)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, sub...)
	}
	return dirs, nil
}

// ignoreDir skips directories the go tool ignores as well.
func ignoreDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasPrefix(name, "_") ||
		name == "testdata" ||
		name == "vendor"
}

func planDir(dir string, o *Options, diags *DiagnosticList) ([]generatedFile, error) {
	dirPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting absolute path for %s", dir)
	}
	resp, err := loadPackages(dirPath)
	if err != nil {
		return nil, errors.Wrap(err, "error loading packages")
	}
	logger.Debugw("loaded packages", "dir", dirPath, "count", len(resp.packages))

	var plan []generatedFile
	for _, pkg := range resp.packages {
		for _, filePath := range pkg.GoFiles {
			if ignoreFile(filepath.Base(filePath), o.Suffix) {
				continue
			}
			astFileInterface, ok := resp.astFiles.Load(filePath)
			if !ok {
				return nil, errors.Newf("error loading ast file for %s", filePath)
			}
			rawFile, ok := astFileInterface.(*ast.File)
			if !ok || rawFile == nil {
				return nil, errors.Newf("error loading ast file for %s", filePath)
			}

			f, err := planFile(pkg, rawFile, filePath, o, diags)
			if err != nil {
				return nil, errors.Wrapf(err, "error processing file %s", filePath)
			}
			if f != nil {
				plan = append(plan, *f)
			}
		}
	}

	orphans, err := planOrphans(dirPath, o.Suffix)
	if err != nil {
		return nil, err
	}
	return append(plan, orphans...), nil
}

// planOrphans removes generated outputs whose source file no longer exists.
// Sources excluded by build constraints still exist, so their outputs stay.
func planOrphans(dir, suffix string) ([]generatedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading directory %s", dir)
	}

	var plan []generatedFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		stem := strings.TrimSuffix(path, suffix)
		if fileExists(stem+".go") || fileExists(stem+"_gen.go") || !isGenerated(path) {
			continue
		}
		plan = append(plan, generatedFile{path: path, remove: true})
	}
	return plan, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func planFile(pkg *packages.Package, node *ast.File, filePath string, o *Options, diags *DiagnosticList) (*generatedFile, error) {
	outputPath := outputFilePath(filePath, o.Suffix)

	before := len(*diags)
	data := collectTmplData(pkg, node, o.TagKey, diags)
	if len(*diags) > before {
		return nil, nil
	}
	if data == nil {
		if isGenerated(outputPath) {
			return &generatedFile{source: filePath, path: outputPath, remove: true}, nil
		}
		return nil, nil
	}

	src, err := executeTmpl(data, filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "error generating tmpl for %s", filePath)
	}

	if src, err = goImportsAndFormat(src, outputPath); err != nil {
		return nil, errors.Wrapf(err, "error formatting file %v", outputPath)
	}

	return &generatedFile{source: filePath, path: outputPath, src: src, count: len(data.Constructors)}, nil
}

// checkCollisions rejects two sources writing the same output and drops
// removals of outputs that another source now writes.
func checkCollisions(plan []generatedFile) ([]generatedFile, error) {
	writers := make(map[string]string, len(plan))
	for _, f := range plan {
		if f.remove {
			continue
		}
		if prev, ok := writers[f.path]; ok {
			return nil, errors.Newf("%s and %s would both generate %s", prev, f.source, f.path)
		}
		writers[f.path] = f.source
	}

	kept := plan[:0]
	for _, f := range plan {
		if _, written := writers[f.path]; f.remove && written {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

func apply(f generatedFile, o *Options) error {
	switch {
	case f.remove && o.DryRun:
		logger.Infow("would remove stale file", "file", f.path)
	case f.remove:
		if err := os.Remove(f.path); err != nil {
			return errors.Wrapf(err, "error removing stale file %v", f.path)
		}
		logger.Infow("removed stale file", "file", f.path)
	case o.DryRun:
		if _, err := fmt.Fprintf(o.Output, "// ==> %s\n%s\n", f.path, f.src); err != nil {
			return errors.Wrapf(err, "error printing %v", f.path)
		}
	default:
		if err := writeToFile(f.src, f.path); err != nil {
			return errors.Wrapf(err, "error writing file %v", f.path)
		}
		logger.Infow("generated constructors", "file", f.source, "output", f.path, "count", f.count)
	}
	return nil
}

func outputFilePath(filePath, suffix string) string {
	if strings.HasSuffix(filePath, "_gen.go") {
		return strings.TrimSuffix(filePath, "_gen.go") + suffix
	}
	return strings.TrimSuffix(filePath, ".go") + suffix
}

func writeToFile(src []byte, outputFilePath string) error {
	if err := os.WriteFile(outputFilePath, src, 0o644); err != nil {
		return errors.Wrapf(err, "error writing file %v", outputFilePath)
	}
	return nil
}

// isGenerated reports whether path exists and was written by this tool.
func isGenerated(path string) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(src, []byte(generatedHeader))
}

// ignoreFile returns true if the directory entry should be ignored.
func ignoreFile(path, suffix string) bool {
	return !strings.HasSuffix(path, ".go") ||
		strings.HasSuffix(path, suffix) ||
		strings.HasSuffix(path, "_test.go")
}

// goImportsAndFormat formats the Go code and fixes imports using the imports.Process function.
func goImportsAndFormat(source []byte, filename string) ([]byte, error) {
	// Use imports.Process from the "golang.org/x/tools/imports" package
	// This will format the code and also fix missing/unused imports
	options := &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false, // true means only format, false means format and fix imports
	}
	return imports.Process(filename, source, options)
}
