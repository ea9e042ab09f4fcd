package app

import "github.com/polydup/polydup/domain"

// ResolveFilePaths resolves file paths for analysis.
// If all paths are already files (not directories), returns them directly.
// Otherwise, collects source files from the provided paths using the specified filters.
//
// Parameters:
//   - fileReader: The file reader abstraction for file operations
//   - paths: The input paths to resolve (can be files or directories)
//   - recursive: Whether to recursively collect files from subdirectories
//   - includePatterns: Glob patterns for files to include
//   - excludePatterns: Glob patterns for files to exclude
//   - validateSourceFile: If true, also validates paths have a recognized source extension
//
// Returns:
//   - []string: List of resolved source file paths
//   - error: Any error encountered during resolution
//
// This function optimizes the case where a caller pre-collects files
// and passes them in directly, avoiding redundant file collection.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
	validateSourceFile bool,
) ([]string, error) {
	// Check if all paths are already files (not directories)
	// This happens when the caller pre-collects files before resolution
	allFiles := true
	for _, path := range paths {
		// Optional: validate that path has a recognized source extension
		if validateSourceFile && !fileReader.IsValidSourceFile(path) {
			allFiles = false
			break
		}

		// Check if file exists (FileExists returns true only for files, not directories)
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// If all paths are already files, no need to collect again
	if allFiles {
		return paths, nil
	}

	// Collect source files from directories
	files, err := fileReader.CollectSourceFiles(
		paths,
		recursive,
		includePatterns,
		excludePatterns,
	)
	if err != nil {
		return nil, err
	}

	return files, nil
}
