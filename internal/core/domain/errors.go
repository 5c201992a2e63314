package domain

import "go.trai.ch/zerr"

// ErrCycleDetected is returned by the graph sorter when the DAG rooted at
// the target handed to Engine.Execute contains a directed cycle.
var ErrCycleDetected = zerr.New("cyclic dependency detected")

// ErrNoRoot is returned when Engine.Execute is called with a nil root.
var ErrNoRoot = zerr.New("no root target specified")

// ErrTargetExecutionFailed is the error attached to a target that
// returned false from Execute.
var ErrTargetExecutionFailed = zerr.New("target execution failed")

// ErrBuildExecutionFailed is returned by App.Run when the engine ran but
// not every scheduled job completed, so callers (notably the CLI) can
// distinguish a build failure from every other kind of error with a
// single errors.Is check.
var ErrBuildExecutionFailed = zerr.New("build execution failed")

// ErrDepFileRead is returned when a dependency file cannot be read for a
// reason other than it simply being absent.
var ErrDepFileRead = zerr.New("failed to read dependency file")

// ErrDepDBSave is returned when the dependency database cannot be written
// back to disk after a build.
var ErrDepDBSave = zerr.New("failed to save dependency database")

// ErrDepDBMarshal is returned when the observed table cannot be
// marshaled to JSON.
var ErrDepDBMarshal = zerr.New("failed to marshal dependency database")

// ErrSourceNotFound is returned by the reference source discoverer when a
// configured glob pattern matches nothing.
var ErrSourceNotFound = zerr.New("no source files matched pattern")

// ErrProcessFailed is returned by the reference process runner when a
// child process exits non-zero.
var ErrProcessFailed = zerr.New("child process exited with a non-zero status")

// ErrConfigRead is returned when the engine configuration file cannot be
// read.
var ErrConfigRead = zerr.New("failed to read engine configuration")

// ErrConfigParse is returned when the engine configuration file cannot be
// parsed as YAML.
var ErrConfigParse = zerr.New("failed to parse engine configuration")

// ErrPathStatFailed is returned when a path required by a reference
// target cannot be stat'd.
var ErrPathStatFailed = zerr.New("failed to stat path")
