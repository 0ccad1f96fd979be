package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/tools/go/packages"
)

const version = "v0.1.0"

// cwd is the default directory to process and the place .ctorgen config is looked up.
var cwd string

// loadedDir is one loaded directory: its packages plus the parsed files
// shared with the type checker, keyed by absolute file path.
type loadedDir struct {
	packages []*packages.Package
	astFiles *sync.Map // key: file path, value: *ast.File
}

// packageCache keeps one load per directory for the lifetime of the process.
var packageCache = make(map[string]*loadedDir, 64)

func init() {
	var err error
	if cwd, err = os.Getwd(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not get current working directory: %v\n", err)
		os.Exit(1)
	}
}
