package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/polydup/polydup/domain"
	"github.com/polydup/polydup/internal/analyzer"
	"github.com/polydup/polydup/internal/constants"
	"github.com/polydup/polydup/internal/parser"
)

// CloneService implements the domain.CloneService interface. It bridges a
// domain.CloneRequest to the analyzer.Driver pair-comparison procedure: read
// each file, dispatch it to the language adapter registered for its
// extension, and hand the resulting function records to the driver.
type CloneService struct{}

// NewCloneService creates a new clone service
func NewCloneService() *CloneService {
	return &CloneService{}
}

// DetectClones performs clone detection on the given request
func (s *CloneService) DetectClones(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("clone request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clone request: %w", err)
	}

	// Use the files already collected by the usecase layer
	return s.DetectClonesInFiles(ctx, req.Paths, req)
}

// parsedFile holds the outcome of parsing a single file, written by its own
// Runner task and read back sequentially once every task has finished.
type parsedFile struct {
	path    string
	content []byte
	funcs   []*parser.FunctionRecord
	skipped bool
	err     error
}

// DetectClonesInFiles performs clone detection on specific files
func (s *CloneService) DetectClonesInFiles(ctx context.Context, filePaths []string, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("clone request cannot be nil")
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("file paths cannot be empty")
	}

	startTime := time.Now()

	// Parse every file with the adapter registered for its extension. Each
	// file is read and parsed independently, so the Runner fans them out
	// across a bounded worker pool and each task writes only to its own slot.
	parsed := make([]*parsedFile, len(filePaths))

	runner := NewRunner()
	if req.Jobs > 0 {
		runner.SetMaxConcurrency(req.Jobs)
	}

	tasks := make([]ExecutableTask, len(filePaths))
	for i, filePath := range filePaths {
		i, filePath := i, filePath
		tasks[i] = NewSimpleTask(filePath, true, func(taskCtx context.Context) (interface{}, error) {
			content, err := readFileContent(filePath)
			if err != nil {
				parsed[i] = &parsedFile{path: filePath, err: fmt.Errorf("failed to read file %s: %w", filePath, err)}
				return nil, nil
			}

			adapter, err := parser.NewAdapterForFile(filePath)
			if err != nil {
				// Unsupported extensions are skipped, not fatal (spec.md §7).
				parsed[i] = &parsedFile{path: filePath, skipped: true}
				return nil, nil
			}

			funcs, err := adapter.ExtractFunctions(taskCtx, content, filePath)
			if err != nil {
				parsed[i] = &parsedFile{path: filePath, err: fmt.Errorf("failed to parse file %s: %w", filePath, err)}
				return nil, nil
			}

			parsed[i] = &parsedFile{path: filePath, content: content, funcs: funcs}
			return nil, nil
		})
	}

	if err := runner.Execute(ctx, tasks); err != nil {
		return nil, fmt.Errorf("clone analysis cancelled: %w", err)
	}

	var fileUnits []analyzer.FileUnit
	linesAnalyzed := 0
	var fileErrors []error
	successfulFiles := 0

	for _, pf := range parsed {
		if pf == nil || pf.skipped {
			continue
		}
		if pf.err != nil {
			fileErrors = append(fileErrors, pf.err)
			continue
		}

		linesAnalyzed += len(strings.Split(string(pf.content), "\n"))
		successfulFiles++
		fileUnits = append(fileUnits, analyzer.FileUnit{Path: pf.path, Functions: pf.funcs})
	}

	if len(fileErrors) > 0 {
		for _, err := range fileErrors {
			log.Printf("Warning: %v", err)
		}
		if successfulFiles == 0 {
			log.Printf("Warning: all %d files could not be processed, returning empty results", len(filePaths))
		} else {
			failedRatio := float64(len(fileErrors)) / float64(len(filePaths))
			if failedRatio > 0.5 {
				log.Printf("Warning: %d out of %d files could not be processed", len(fileErrors), len(filePaths))
			}
		}
	}

	if len(fileUnits) == 0 {
		return &domain.CloneResponse{
			Clones:      []*domain.Clone{},
			ClonePairs:  []*domain.ClonePair{},
			CloneGroups: []*domain.CloneGroup{},
			Statistics: &domain.CloneStatistics{
				FilesAnalyzed: successfulFiles,
				LinesAnalyzed: linesAnalyzed,
				ClonesByType:  make(map[string]int),
			},
			Request:  req,
			Duration: time.Since(startTime).Milliseconds(),
			Success:  true,
		}, nil
	}

	costModel := analyzer.NewCostModel(analyzer.CostOptions{
		RenameCost: req.RenameCost,
		DeleteCost: req.DeleteCost,
		InsertCost: req.InsertCost,
	})
	driver := analyzer.NewDriver(costModel).
		WithClassifyThresholds(analyzer.ClassifyThresholds{
			Type1: req.Type1Threshold,
			Type2: req.Type2Threshold,
			Type3: req.Type3Threshold,
			Type4: req.Type4Threshold,
		})

	opts := analyzer.DefaultComparisonOptions()
	opts.Score.MinLines = req.MinLines
	opts.Threshold = req.SimilarityThreshold
	opts.SkipTests = req.SkipTests
	if req.Jobs > 0 {
		opts.Workers = req.Jobs
	}

	// CompareFiles treats a single-file slice as intra-file comparison, so
	// cross-file mode (the default) hands it every file at once, while
	// intra-file-only mode calls it once per file and concatenates results.
	var results []analyzer.Result
	if req.CrossFile {
		results = driver.CompareFiles(ctx, fileUnits, opts)
	} else {
		for _, fu := range fileUnits {
			results = append(results, driver.CompareFiles(ctx, []analyzer.FileUnit{fu}, opts)...)
		}
	}

	domainClonePairs := s.convertResultsToDomain(results)
	domainClonePairs = s.filterClonePairs(domainClonePairs, req)

	domainClones := s.collectClonesFromPairs(domainClonePairs)

	var domainCloneGroups []*domain.CloneGroup
	if req.GroupClones {
		domainCloneGroups = s.groupClonePairs(domainClonePairs, req.Type3Threshold)
		domainCloneGroups = s.filterCloneGroups(domainCloneGroups, req)
	} else {
		domainCloneGroups = []*domain.CloneGroup{}
	}

	s.sortResults(domainClonePairs, req)

	statistics := s.createStatistics(domainClones, domainClonePairs, domainCloneGroups, successfulFiles, linesAnalyzed)

	return &domain.CloneResponse{
		Clones:      domainClones,
		ClonePairs:  domainClonePairs,
		CloneGroups: domainCloneGroups,
		Statistics:  statistics,
		Request:     req,
		Duration:    time.Since(startTime).Milliseconds(),
		Success:     true,
	}, nil
}

// ComputeSimilarity computes similarity between two code fragments belonging
// to the same language. Since a bare fragment carries no file extension, this
// always treats the input as Python — the language the original tool
// exclusively handled — for backward-compatible single-snippet comparisons.
func (s *CloneService) ComputeSimilarity(ctx context.Context, fragment1, fragment2 string) (float64, error) {
	if fragment1 == "" || fragment2 == "" {
		return 0.0, fmt.Errorf("fragments cannot be empty")
	}
	if ctx == nil {
		return 0.0, fmt.Errorf("context cannot be nil")
	}
	if len(fragment1) > constants.DefaultMaxFragmentSize || len(fragment2) > constants.DefaultMaxFragmentSize {
		return 0.0, fmt.Errorf("fragment size exceeds maximum allowed size of %d bytes", constants.DefaultMaxFragmentSize)
	}

	adapter, err := parser.NewAdapterForFile("fragment.py")
	if err != nil {
		return 0.0, fmt.Errorf("no adapter available for fragment comparison: %w", err)
	}

	node1, err := adapter.Parse(ctx, []byte(fragment1), "fragment1.py")
	if err != nil {
		return 0.0, fmt.Errorf("failed to parse fragment1: %w", err)
	}

	node2, err := adapter.Parse(ctx, []byte(fragment2), "fragment2.py")
	if err != nil {
		return 0.0, fmt.Errorf("failed to parse fragment2: %w", err)
	}

	tree1 := analyzer.ConvertNode(node1)
	tree2 := analyzer.ConvertNode(node2)
	if tree1 == nil || tree2 == nil {
		return 0.0, fmt.Errorf("failed to convert AST to tree nodes")
	}

	costModel := analyzer.NewCostModel(analyzer.DefaultCostOptions())
	engine := analyzer.NewAPTEDAnalyzer(costModel)
	_, similarity := analyzer.ScoreTrees(engine, tree1, tree2, analyzer.DefaultScoreOptions())
	return similarity, nil
}

// convertResultsToDomain converts driver results to domain clone pairs. Each
// result becomes one pair; the two constituent clones get synthetic IDs
// assigned later when collectClonesFromPairs dedupes occurrences.
func (s *CloneService) convertResultsToDomain(results []analyzer.Result) []*domain.ClonePair {
	pairs := make([]*domain.ClonePair, 0, len(results))

	for i, r := range results {
		clone1 := functionToClone(r.FileA, r.FuncA, r.SizeA)
		clone2 := functionToClone(r.FileB, r.FuncB, r.SizeB)

		pairs = append(pairs, &domain.ClonePair{
			ID:         i + 1,
			Clone1:     clone1,
			Clone2:     clone2,
			Similarity: r.Similarity,
			Distance:   r.Distance,
			Type:       convertCloneType(r.Type),
			Confidence: r.Similarity,
		})
	}

	return pairs
}

func functionToClone(filePath string, fn *parser.FunctionRecord, size int) *domain.Clone {
	return &domain.Clone{
		Location: &domain.CloneLocation{
			FilePath:  filePath,
			StartLine: fn.StartLine,
			EndLine:   fn.EndLine,
		},
		Size:      size,
		LineCount: fn.LineCount(),
	}
}

// collectClonesFromPairs produces a deduplicated, ID-assigned clone list from
// the locations referenced by the retained pairs.
func (s *CloneService) collectClonesFromPairs(pairs []*domain.ClonePair) []*domain.Clone {
	seen := make(map[string]*domain.Clone)
	var order []string

	add := func(c *domain.Clone) {
		key := c.Location.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = c
		order = append(order, key)
	}

	for _, pair := range pairs {
		add(pair.Clone1)
		add(pair.Clone2)
	}

	clones := make([]*domain.Clone, 0, len(order))
	for i, key := range order {
		c := seen[key]
		c.ID = i + 1
		clones = append(clones, c)
	}
	return clones
}

// groupClonePairs builds connected components over pairs whose similarity
// meets threshold, using each clone's location string as its node identity.
func (s *CloneService) groupClonePairs(pairs []*domain.ClonePair, threshold float64) []*domain.CloneGroup {
	parent := make(map[string]string)
	nodeClone := make(map[string]*domain.Clone)

	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	register := func(c *domain.Clone) string {
		key := c.Location.String()
		if _, ok := parent[key]; !ok {
			parent[key] = key
			nodeClone[key] = c
		}
		return key
	}

	typeByComponent := make(map[string]domain.CloneType)
	simSumByComponent := make(map[string]float64)
	simCountByComponent := make(map[string]int)

	for _, pair := range pairs {
		if pair.Similarity < threshold {
			continue
		}
		keyA := register(pair.Clone1)
		keyB := register(pair.Clone2)
		union(keyA, keyB)

		root := find(keyA)
		if pair.Type > typeByComponent[root] {
			typeByComponent[root] = pair.Type
		}
		simSumByComponent[root] += pair.Similarity
		simCountByComponent[root]++
	}

	components := make(map[string][]*domain.Clone)
	for key, clone := range nodeClone {
		root := find(key)
		components[root] = append(components[root], clone)
	}

	groups := make([]*domain.CloneGroup, 0, len(components))
	id := 0
	for root, clones := range components {
		if len(clones) < 2 {
			continue
		}
		id++
		avgSim := 0.0
		if n := simCountByComponent[root]; n > 0 {
			avgSim = simSumByComponent[root] / float64(n)
		}
		group := &domain.CloneGroup{
			ID:         id,
			Type:       typeByComponent[root],
			Similarity: avgSim,
			Clones:     clones,
			Size:       len(clones),
		}
		groups = append(groups, group)
	}

	return groups
}

func convertCloneType(t analyzer.CloneType) domain.CloneType {
	switch t {
	case analyzer.CloneType1:
		return domain.Type1Clone
	case analyzer.CloneType2:
		return domain.Type2Clone
	case analyzer.CloneType3:
		return domain.Type3Clone
	default:
		return domain.Type4Clone
	}
}

// filterClonePairs filters clone pairs based on request criteria
func (s *CloneService) filterClonePairs(pairs []*domain.ClonePair, req *domain.CloneRequest) []*domain.ClonePair {
	var filtered []*domain.ClonePair

	for _, pair := range pairs {
		if pair.Similarity < req.MinSimilarity || pair.Similarity > req.MaxSimilarity {
			continue
		}

		typeEnabled := false
		for _, enabledType := range req.CloneTypes {
			if pair.Type == enabledType {
				typeEnabled = true
				break
			}
		}
		if !typeEnabled {
			continue
		}

		filtered = append(filtered, pair)
	}

	if filtered == nil {
		filtered = []*domain.ClonePair{}
	}
	return filtered
}

// filterCloneGroups filters clone groups based on request criteria
func (s *CloneService) filterCloneGroups(groups []*domain.CloneGroup, req *domain.CloneRequest) []*domain.CloneGroup {
	var filtered []*domain.CloneGroup

	for _, group := range groups {
		if group.Similarity < req.MinSimilarity || group.Similarity > req.MaxSimilarity {
			continue
		}

		typeEnabled := false
		for _, enabledType := range req.CloneTypes {
			if group.Type == enabledType {
				typeEnabled = true
				break
			}
		}
		if !typeEnabled {
			continue
		}

		filtered = append(filtered, group)
	}

	if filtered == nil {
		filtered = []*domain.CloneGroup{}
	}
	return filtered
}

// sortResults sorts clone pairs in place based on the request's sort criteria.
// The driver already returns results ordered by descending similarity, so
// SortBySimilarity (and the default) leave the order untouched.
func (s *CloneService) sortResults(pairs []*domain.ClonePair, req *domain.CloneRequest) {
	switch req.SortBy {
	case domain.SortBySize:
		sort.SliceStable(pairs, func(i, j int) bool {
			sizeI := pairs[i].Clone1.Size + pairs[i].Clone2.Size
			sizeJ := pairs[j].Clone1.Size + pairs[j].Clone2.Size
			return sizeI > sizeJ
		})
	case domain.SortByLocation:
		sort.SliceStable(pairs, func(i, j int) bool {
			a, b := pairs[i].Clone1.Location, pairs[j].Clone1.Location
			if a.FilePath != b.FilePath {
				return a.FilePath < b.FilePath
			}
			return a.StartLine < b.StartLine
		})
	case domain.SortByType:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Type > pairs[j].Type
		})
	default:
		// Similarity, confidence and unset all keep the driver's descending
		// similarity order.
	}
}

// createStatistics creates clone detection statistics
func (s *CloneService) createStatistics(clones []*domain.Clone, pairs []*domain.ClonePair, groups []*domain.CloneGroup, filesAnalyzed, linesAnalyzed int) *domain.CloneStatistics {
	stats := domain.NewCloneStatistics()
	stats.TotalClones = len(clones)
	stats.TotalClonePairs = len(pairs)
	stats.TotalCloneGroups = len(groups)
	stats.FilesAnalyzed = filesAnalyzed
	stats.LinesAnalyzed = linesAnalyzed

	for _, pair := range pairs {
		stats.ClonesByType[pair.Type.String()]++
	}

	if len(pairs) > 0 {
		totalSimilarity := 0.0
		for _, pair := range pairs {
			totalSimilarity += pair.Similarity
		}
		stats.AverageSimilarity = totalSimilarity / float64(len(pairs))
	}

	return stats
}

// readFileContent reads the content of a file
func readFileContent(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return content, nil
}
