package analyzer

import "math"

// ScoreOptions configures Score, transliterated from the original
// implementation's TSEDOptions (crates/core/src/tsed.rs).
type ScoreOptions struct {
	Cost        CostOptions
	MinLines    int
	SizePenalty bool
}

// DefaultScoreOptions mirrors TSEDOptions::default(): rename/delete/insert
// 0.3/1.0/1.0, a five-line floor below which a pair is not worth comparing,
// and the size penalty enabled.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{Cost: DefaultCostOptions(), MinLines: 5, SizePenalty: true}
}

// Score computes the TSED similarity in [0, 1] between tree1 and tree2 using
// distance as the already-computed APTED edit distance between them. This is
// a direct transliteration of crates/core/src/tsed.rs::calculate_tsed: a base
// score normalized by the larger tree's size, then two independent
// multiplicative penalties for small and for lopsided-size pairs.
func Score(distance float64, tree1, tree2 *TreeNode, opts ScoreOptions) float64 {
	size1 := float64(tree1.Size())
	size2 := float64(tree2.Size())

	maxSize := math.Max(size1, size2)
	similarity := 1.0
	if maxSize > 0 {
		similarity = math.Max(0, 1.0-distance/maxSize)
	}

	if opts.SizePenalty {
		minSize := math.Min(size1, size2)
		if minSize < 20.0 {
			similarity *= math.Sqrt(minSize / 20.0)
		}

		sizeRatio := 0.0
		if maxSize > 0 {
			sizeRatio = minSize / maxSize
		}
		if sizeRatio < 0.5 {
			similarity *= math.Sqrt(sizeRatio)
		}
	}

	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// ScoreTrees runs the APTED engine and then Score in one call, the common
// path for the pair comparison driver.
func ScoreTrees(engine *APTEDAnalyzer, tree1, tree2 *TreeNode, opts ScoreOptions) (distance, similarity float64) {
	distance = engine.ComputeDistance(tree1, tree2)
	similarity = Score(distance, tree1, tree2, opts)
	return distance, similarity
}
