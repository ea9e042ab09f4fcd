package domain

// ============================================================================
// Clone Analysis Defaults
// ============================================================================
//
// Clone type thresholds themselves live in internal/constants so that
// internal/analyzer's classifier and this package's request defaults always
// agree on one set of numbers; domain only adds the knobs that are specific
// to a CloneRequest and have no meaning inside the comparison engine itself.

const (
	// DefaultCloneMinLines is the minimum number of lines for a code fragment to be considered.
	DefaultCloneMinLines = 5

	// DefaultCloneMinNodes is the minimum number of AST nodes for a code fragment.
	DefaultCloneMinNodes = 10

	// DefaultCloneMaxEditDistance is the maximum tree edit distance for clone comparison.
	DefaultCloneMaxEditDistance = 50.0

	// DefaultCloneSimilarityThreshold is the general similarity threshold for clone detection.
	DefaultCloneSimilarityThreshold = 0.8
)

// ============================================================================
// Performance Defaults
// ============================================================================

const (
	// DefaultBatchSize is the default batch size for processing files.
	DefaultBatchSize = 100

	// DefaultMaxGoroutines is the default number of concurrent workers comparing pairs.
	DefaultMaxGoroutines = 4

	// DefaultTimeoutSeconds is the default timeout in seconds for analysis operations.
	DefaultTimeoutSeconds = 300
)
