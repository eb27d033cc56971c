// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Parse fields.
	FieldBytes  = "bytes"
	FieldBlocks = "blocks"
	FieldProps  = "props"

	// Output fields.
	FieldFormat = "format"
	FieldPretty = "pretty"

	// Manifest fields.
	FieldRoot    = "root"
	FieldJobs    = "jobs"
	FieldEntries = "entries"
	FieldFailed  = "failed"
	FieldSkipped = "skipped"
	FieldReason  = "reason"

	// Configuration fields.
	FieldConfig = "config"
	FieldSource = "source"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
