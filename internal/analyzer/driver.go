package analyzer

import (
	"context"
	"sort"
	"sync"

	"github.com/polydup/polydup/internal/parser"
)

// ComparisonOptions groups the APTED/TSED tuning knobs plus the driver-level
// filters named in spec.md §3 and §4.4.
type ComparisonOptions struct {
	Score ScoreOptions

	// SkipTests drops functions carrying the "is-test" attribute before pair
	// enumeration.
	SkipTests bool

	// MinSizeRatio is the cheap early-reject floor of spec.md §4.4: a pair
	// whose smaller/larger subtree-size ratio falls below this is skipped
	// without running APTED. Set equal to the TSED size-ratio cutoff (0.5) it
	// strictly preserves results; a looser value trades recall for speed.
	MinSizeRatio float64

	// Threshold is the similarity cutoff τ; pairs scoring below it are
	// dropped from the result set.
	Threshold float64

	// Workers bounds the number of goroutines comparing pairs concurrently.
	Workers int
}

// DefaultComparisonOptions mirrors the original tool's CLI defaults.
func DefaultComparisonOptions() ComparisonOptions {
	return ComparisonOptions{
		Score:        DefaultScoreOptions(),
		SkipTests:    false,
		MinSizeRatio: 0.5,
		Threshold:    0.8,
		Workers:      4,
	}
}

// FileUnit is one parsed file's function records, produced by a language
// adapter and handed to the driver read-only.
type FileUnit struct {
	Path      string
	Functions []*parser.FunctionRecord
}

// Result is one retained pair comparison, carrying both function
// identifications plus the raw distance and tree sizes for diagnostics
// (spec.md §4.4's output contract).
type Result struct {
	FileA, FileB string
	FuncA, FuncB *parser.FunctionRecord
	Similarity   float64
	Distance     float64
	SizeA, SizeB int
	Type         CloneType
}

// pairCandidate is an internal work item: two functions plus their converted
// trees, built once and shared read-only by the comparing worker.
type pairCandidate struct {
	fileA, fileB string
	funcA, funcB *parser.FunctionRecord
	treeA, treeB *TreeNode
}

// Driver runs the pair comparison procedure of spec.md §4.4 over a set of
// parsed files, grounded on pyscn's service/parallel_executor.go worker-pool
// pattern generalized from a single CloneDetector to the core's own fan-out.
type Driver struct {
	costModel CostModel
	thresh    ClassifyThresholds
}

// NewDriver creates a driver using costModel for every APTED comparison.
func NewDriver(costModel CostModel) *Driver {
	return &Driver{costModel: costModel, thresh: DefaultClassifyThresholds()}
}

// WithClassifyThresholds overrides the Type1-4 cutoffs used to label results.
func (d *Driver) WithClassifyThresholds(t ClassifyThresholds) *Driver {
	d.thresh = t
	return d
}

// CompareFiles runs the full procedure: filters each file's functions,
// enumerates candidate pairs (intra-file when len(files)==1, cross-file
// otherwise — same-file pairs are still included per spec.md §4.4), compares
// them concurrently, and returns the retained results sorted deterministically.
func (d *Driver) CompareFiles(ctx context.Context, files []FileUnit, opts ComparisonOptions) []Result {
	filtered := make([][]*parser.FunctionRecord, len(files))
	for i, f := range files {
		filtered[i] = filterFunctions(f.Functions, opts)
	}

	candidates := buildCandidates(files, filtered)
	results := d.compareConcurrently(ctx, candidates, opts)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].FileA != results[j].FileA {
			return results[i].FileA < results[j].FileA
		}
		if results[i].FuncA.StartLine != results[j].FuncA.StartLine {
			return results[i].FuncA.StartLine < results[j].FuncA.StartLine
		}
		if results[i].FileB != results[j].FileB {
			return results[i].FileB < results[j].FileB
		}
		if results[i].FuncB.StartLine != results[j].FuncB.StartLine {
			return results[i].FuncB.StartLine < results[j].FuncB.StartLine
		}
		if results[i].FuncA.Name != results[j].FuncA.Name {
			return results[i].FuncA.Name < results[j].FuncA.Name
		}
		return results[i].FuncB.Name < results[j].FuncB.Name
	})

	return results
}

// filterFunctions drops functions under the line-count floor and, if
// requested, functions marked as tests.
func filterFunctions(funcs []*parser.FunctionRecord, opts ComparisonOptions) []*parser.FunctionRecord {
	out := make([]*parser.FunctionRecord, 0, len(funcs))
	for _, f := range funcs {
		if f.LineCount() < opts.Score.MinLines {
			continue
		}
		if opts.SkipTests && f.IsTest() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// buildCandidates forms every unordered cross-file pair (which subsumes
// intra-file pairs when there is only one file) excluding a function paired
// with itself, converting each function's subtree_ref exactly once.
func buildCandidates(files []FileUnit, filtered [][]*parser.FunctionRecord) []pairCandidate {
	type entry struct {
		path string
		fn   *parser.FunctionRecord
		tree *TreeNode
	}

	var all []entry
	for i, funcs := range filtered {
		for _, fn := range funcs {
			node := fn.Node
			if node == nil {
				node = fn.BodyNode
			}
			all = append(all, entry{path: files[i].Path, fn: fn, tree: ConvertNode(node)})
		}
	}

	var candidates []pairCandidate
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			candidates = append(candidates, pairCandidate{
				fileA: all[i].path, fileB: all[j].path,
				funcA: all[i].fn, funcB: all[j].fn,
				treeA: all[i].tree, treeB: all[j].tree,
			})
		}
	}
	return candidates
}

// compareConcurrently fans candidates out across opts.Workers goroutines,
// each holding its own APTEDAnalyzer instance so no memoization state is
// shared across concurrently-running comparisons (spec.md §5).
func (d *Driver) compareConcurrently(ctx context.Context, candidates []pairCandidate, opts ComparisonOptions) []Result {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan pairCandidate)
	resultsCh := make(chan *Result, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine := NewAPTEDAnalyzer(d.costModel)
			for cand := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if r := d.compareOne(engine, cand, opts); r != nil {
					resultsCh <- r
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- c:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var results []Result
	for r := range resultsCh {
		results = append(results, *r)
	}
	return results
}

// compareOne applies the size-ratio early reject, then computes TSED and
// returns a Result when it clears the configured threshold.
func (d *Driver) compareOne(engine *APTEDAnalyzer, cand pairCandidate, opts ComparisonOptions) *Result {
	sizeA, sizeB := cand.treeA.Size(), cand.treeB.Size()
	smaller, larger := sizeA, sizeB
	if larger < smaller {
		smaller, larger = larger, smaller
	}
	if larger > 0 && float64(smaller)/float64(larger) < opts.MinSizeRatio {
		return nil
	}

	distance, similarity := ScoreTrees(engine, cand.treeA, cand.treeB, opts.Score)
	if similarity < opts.Threshold {
		return nil
	}

	return &Result{
		FileA: cand.fileA, FileB: cand.fileB,
		FuncA: cand.funcA, FuncB: cand.funcB,
		Similarity: similarity, Distance: distance,
		SizeA: sizeA, SizeB: sizeB,
		Type: Classify(similarity, d.thresh),
	}
}
