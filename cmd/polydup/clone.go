package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/polydup/polydup/app"
	"github.com/polydup/polydup/domain"
	"github.com/polydup/polydup/internal/constants"
	"github.com/polydup/polydup/service"
)

// CloneCommand handles the clone detection CLI command
type CloneCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Analysis configuration
	minLines            int
	minNodes            int
	similarityThreshold float64
	maxEditDistance     float64
	ignoreLiterals      bool
	ignoreIdentifiers   bool

	// Type-specific thresholds
	type1Threshold float64
	type2Threshold float64
	type3Threshold float64
	type4Threshold float64

	// Pair-enumeration and APTED cost-model knobs
	skipTests   bool
	crossFile   bool
	noCrossFile bool
	renameCost  float64
	deleteCost  float64
	insertCost  float64
	jobs        int
	timeout     time.Duration

	// Output format flags (only one should be true)
	html   bool
	json   bool
	csv    bool
	yaml   bool
	noOpen bool

	// Output options
	showDetails bool
	showContent bool
	sortBy      string
	groupClones bool

	// Filtering
	minSimilarity float64
	maxSimilarity float64
	cloneTypes    []string
}

// NewCloneCommand creates a new clone detection command
func NewCloneCommand() *CloneCommand {
	return &CloneCommand{
		recursive:           true,
		includePatterns:     []string{"**/*.py", "**/*.go", "**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx", "**/*.rs"},
		excludePatterns:     []string{"**/vendor/**", "**/node_modules/**", "**/.git/**"},
		minLines:            5,
		minNodes:            10,
		similarityThreshold: 0.8,
		maxEditDistance:     50.0,
		ignoreLiterals:      false,
		ignoreIdentifiers:   false,
		type1Threshold:      constants.DefaultType1CloneThreshold,
		type2Threshold:      constants.DefaultType2CloneThreshold,
		type3Threshold:      constants.DefaultType3CloneThreshold,
		type4Threshold:      constants.DefaultType4CloneThreshold,
		skipTests:           false,
		crossFile:           true,
		renameCost:          0.3,
		deleteCost:          1.0,
		insertCost:          1.0,
		jobs:                0,
		timeout:             0,
		showDetails:         false,
		showContent:         false,
		sortBy:              "similarity",
		groupClones:         true,
		minSimilarity:       0.0,
		maxSimilarity:       1.0,
		cloneTypes:          []string{"type1", "type2", "type3", "type4"},
	}
}

// CreateCobraCommand creates the Cobra command for clone detection
func (c *CloneCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [files...]",
		Short: "Detect code clones using tree edit distance",
		Long: `Detect code clones across Python, Go, JavaScript/TypeScript and Rust sources
using the APTED tree-edit-distance algorithm.

This command identifies structurally similar functions that may be candidates
for refactoring. It supports detection of different clone types:

- Type-1: Identical code (except whitespace and comments)
- Type-2: Syntactically identical but with different identifiers/literals
- Type-3: Syntactically similar with small modifications
- Type-4: Functionally similar but syntactically different

Examples:
  # Detect clones in current directory
  polydup compare .

  # Detect clones with a custom similarity threshold
  polydup compare --similarity-threshold 0.9 src/

  # Show detailed clone information with content
  polydup compare --details --show-content src/

  # Only detect Type-1 and Type-2 clones
  polydup compare --clone-types type1,type2 src/

  # Write results to a timestamped JSON report file
  polydup compare --json src/`,
		RunE: c.runCloneDetection,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", c.includePatterns,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", c.excludePatterns,
		"File patterns to exclude")

	// Analysis configuration flags
	cmd.Flags().IntVar(&c.minLines, "min-lines", c.minLines,
		"Minimum number of lines for clone candidates")
	cmd.Flags().IntVar(&c.minNodes, "min-nodes", c.minNodes,
		"Minimum number of AST nodes for clone candidates")
	cmd.Flags().Float64VarP(&c.similarityThreshold, "similarity-threshold", "s", c.similarityThreshold,
		"Minimum similarity threshold for clone detection (0.0-1.0)")
	cmd.Flags().Float64Var(&c.maxEditDistance, "max-distance", c.maxEditDistance,
		"Maximum edit distance allowed for clones")
	cmd.Flags().BoolVar(&c.ignoreLiterals, "ignore-literals", c.ignoreLiterals,
		"Ignore differences in literal values")
	cmd.Flags().BoolVar(&c.ignoreIdentifiers, "ignore-identifiers", c.ignoreIdentifiers,
		"Ignore differences in identifier names")

	// Type-specific threshold flags
	cmd.Flags().Float64Var(&c.type1Threshold, "type1-threshold", c.type1Threshold,
		"Similarity threshold for Type-1 clones (identical)")
	cmd.Flags().Float64Var(&c.type2Threshold, "type2-threshold", c.type2Threshold,
		"Similarity threshold for Type-2 clones (renamed)")
	cmd.Flags().Float64Var(&c.type3Threshold, "type3-threshold", c.type3Threshold,
		"Similarity threshold for Type-3 clones (near-miss)")
	cmd.Flags().Float64Var(&c.type4Threshold, "type4-threshold", c.type4Threshold,
		"Similarity threshold for Type-4 clones (semantic)")

	// Pair-enumeration and cost-model flags
	cmd.Flags().BoolVar(&c.skipTests, "skip-test", c.skipTests,
		"Exclude test functions from clone detection")
	cmd.Flags().BoolVar(&c.crossFile, "cross-file", c.crossFile,
		"Compare fragments across files in addition to within each file")
	cmd.Flags().BoolVar(&c.noCrossFile, "no-cross-file", false,
		"Only compare fragments within the same file")
	cmd.Flags().Float64Var(&c.renameCost, "rename-cost", c.renameCost,
		"APTED cost of renaming a node (identifier/literal change)")
	cmd.Flags().Float64Var(&c.deleteCost, "delete-cost", c.deleteCost,
		"APTED cost of deleting a node")
	cmd.Flags().Float64Var(&c.insertCost, "insert-cost", c.insertCost,
		"APTED cost of inserting a node")
	cmd.Flags().IntVar(&c.jobs, "jobs", c.jobs,
		"Number of parallel workers for parsing and comparison (0 = GOMAXPROCS for parsing, 4 for comparison)")
	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout,
		"Abort detection if it runs longer than this duration (0 = no timeout)")

	// Output format flags
	cmd.Flags().BoolVar(&c.html, "html", false, "Generate HTML report file")
	cmd.Flags().BoolVar(&c.json, "json", false, "Generate JSON report file")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Generate CSV report file")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Generate YAML report file")
	cmd.Flags().BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")

	// Output options
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", c.showDetails,
		"Show detailed clone information")
	cmd.Flags().BoolVar(&c.showContent, "show-content", c.showContent,
		"Include source code content in output")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: similarity, size, location, type")
	cmd.Flags().BoolVar(&c.groupClones, "group", c.groupClones,
		"Group related clones together")

	// Filtering flags
	cmd.Flags().Float64Var(&c.minSimilarity, "min-similarity", c.minSimilarity,
		"Minimum similarity to report (0.0-1.0)")
	cmd.Flags().Float64Var(&c.maxSimilarity, "max-similarity", c.maxSimilarity,
		"Maximum similarity to report (0.0-1.0)")
	cmd.Flags().StringSliceVar(&c.cloneTypes, "clone-types", c.cloneTypes,
		"Clone types to detect: type1, type2, type3, type4")

	// Hide advanced algorithm flags from the main help; configure them via
	// .polydup.toml / polydup.toml instead.
	_ = cmd.Flags().MarkHidden("max-distance")
	_ = cmd.Flags().MarkHidden("type1-threshold")
	_ = cmd.Flags().MarkHidden("type2-threshold")
	_ = cmd.Flags().MarkHidden("type3-threshold")
	_ = cmd.Flags().MarkHidden("type4-threshold")
	_ = cmd.Flags().MarkHidden("ignore-literals")
	_ = cmd.Flags().MarkHidden("ignore-identifiers")
	_ = cmd.Flags().MarkHidden("min-lines")
	_ = cmd.Flags().MarkHidden("min-nodes")
	_ = cmd.Flags().MarkHidden("min-similarity")
	_ = cmd.Flags().MarkHidden("max-similarity")
	_ = cmd.Flags().MarkHidden("rename-cost")
	_ = cmd.Flags().MarkHidden("delete-cost")
	_ = cmd.Flags().MarkHidden("insert-cost")

	return cmd
}

// runCloneDetection executes the clone detection command
func (c *CloneCommand) runCloneDetection(cmd *cobra.Command, args []string) error {
	// Set default paths if none provided
	if len(args) == 0 {
		args = []string{"."}
	}

	// Create clone request from command flags
	request, err := c.createCloneRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create clone request: %w", err)
	}

	// Validate request
	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	// Create clone use case with dependencies
	useCase, err := c.createCloneUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create clone use case: %w", err)
	}

	// Execute clone detection. Configuration-file merging (if request.ConfigPath
	// is set, or a default .polydup.toml/polydup.toml is discovered) happens
	// inside Execute via the injected configLoader.
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := useCase.Execute(ctx, *request); err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}

	return nil
}

// determineOutputFormat determines the output format based on flags
func (c *CloneCommand) determineOutputFormat() (domain.OutputFormat, string, error) {
	resolver := service.NewOutputFormatResolver()
	return resolver.Determine(c.html, c.json, c.csv, c.yaml)
}

// createCloneRequest creates a clone request from command line flags
func (c *CloneCommand) createCloneRequest(cmd *cobra.Command, paths []string) (*domain.CloneRequest, error) {
	// Determine output format from flags
	outputFormat, extension, err := c.determineOutputFormat()
	if err != nil {
		return nil, err
	}

	// Parse sort criteria
	sortBy, err := c.parseSortCriteria(c.sortBy)
	if err != nil {
		return nil, err
	}

	// Parse clone types
	cloneTypes, err := c.parseCloneTypes(c.cloneTypes)
	if err != nil {
		return nil, err
	}

	// Determine output destination
	var outputWriter io.Writer
	var outputPath string

	if outputFormat == domain.OutputFormatText {
		// Text format goes to stdout
		outputWriter = os.Stdout
	} else {
		// Other formats generate a file
		targetPath := getTargetPathFromArgs(paths)
		outputPath, err = generateOutputFilePath("clone", extension, targetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to generate output path: %w", err)
		}
	}

	request := &domain.CloneRequest{
		Paths:               paths,
		Recursive:           c.recursive,
		IncludePatterns:     c.includePatterns,
		ExcludePatterns:     c.excludePatterns,
		MinLines:            c.minLines,
		MinNodes:            c.minNodes,
		SimilarityThreshold: c.similarityThreshold,
		MaxEditDistance:     c.maxEditDistance,
		IgnoreLiterals:      c.ignoreLiterals,
		IgnoreIdentifiers:   c.ignoreIdentifiers,
		Type1Threshold:      c.type1Threshold,
		Type2Threshold:      c.type2Threshold,
		Type3Threshold:      c.type3Threshold,
		Type4Threshold:      c.type4Threshold,
		SkipTests:           c.skipTests,
		CrossFile:           c.crossFile && !c.noCrossFile,
		RenameCost:          c.renameCost,
		DeleteCost:          c.deleteCost,
		InsertCost:          c.insertCost,
		Jobs:                c.jobs,
		OutputFormat:        outputFormat,
		OutputWriter:        outputWriter,
		OutputPath:          outputPath,
		NoOpen:              c.noOpen,
		ShowDetails:         c.showDetails,
		ShowContent:         c.showContent,
		SortBy:              sortBy,
		GroupClones:         c.groupClones,
		MinSimilarity:       c.minSimilarity,
		MaxSimilarity:       c.maxSimilarity,
		CloneTypes:          cloneTypes,
		ConfigPath:          c.configFile,
	}

	return request, nil
}

// parseCloneTypes parses clone types from a string slice
func (c *CloneCommand) parseCloneTypes(typeStrs []string) ([]domain.CloneType, error) {
	var cloneTypes []domain.CloneType

	for _, typeStr := range typeStrs {
		switch strings.ToLower(typeStr) {
		case "type1":
			cloneTypes = append(cloneTypes, domain.Type1Clone)
		case "type2":
			cloneTypes = append(cloneTypes, domain.Type2Clone)
		case "type3":
			cloneTypes = append(cloneTypes, domain.Type3Clone)
		case "type4":
			cloneTypes = append(cloneTypes, domain.Type4Clone)
		default:
			return nil, fmt.Errorf("invalid clone type '%s', must be one of: type1, type2, type3, type4", typeStr)
		}
	}

	if len(cloneTypes) == 0 {
		cloneTypes = []domain.CloneType{domain.Type1Clone, domain.Type2Clone, domain.Type3Clone, domain.Type4Clone}
	}

	return cloneTypes, nil
}

// createCloneUseCase creates a clone use case with all dependencies
func (c *CloneCommand) createCloneUseCase(cmd *cobra.Command) (*app.CloneUseCase, error) {
	// Track which flags were explicitly set by the user
	explicitFlags := GetExplicitFlags(cmd)

	fileReader := service.NewFileReader()
	formatter := service.NewCloneOutputFormatter()
	configLoader := service.NewCloneConfigurationLoaderWithFlags(explicitFlags)
	cloneService := service.NewCloneService()

	return app.NewCloneUseCaseBuilder().
		WithService(cloneService).
		WithFileReader(fileReader).
		WithFormatter(formatter).
		WithConfigLoader(configLoader).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// parseSortCriteria parses and validates the sort criteria
func (c *CloneCommand) parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch strings.ToLower(sort) {
	case "similarity":
		return domain.SortBySimilarity, nil
	case "size":
		return domain.SortBySize, nil
	case "location":
		return domain.SortByLocation, nil
	case "type":
		return domain.SortByType, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: similarity, size, location, type)", sort)
	}
}

// Helper function to add the clone command to the root command
func addCloneCommand(rootCmd *cobra.Command) {
	cloneCmd := NewCloneCommand()
	rootCmd.AddCommand(cloneCmd.CreateCobraCommand())
}
