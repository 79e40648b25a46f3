package checker

// InputMode tells the registry how to feed a checker's Check method: one
// call per line, or one call with the entire file's content.
type InputMode int

const (
	// LineInput checkers receive one call to Check per input line.
	LineInput InputMode = iota
	// BlobInput checkers receive a single call to Check with the entire
	// file content (XML, TSV).
	BlobInput
)
