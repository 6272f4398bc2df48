package fiasco

// Internal constants.
const (
	// maxLevel is the deepest bintree level the codec produces; a
	// 4096x4096 image root sits at level 24.
	maxLevel = 24
)

// API constants.
const (
	// MaxLabels is the number of child regions of one bintree
	// subdivision.
	MaxLabels = 2

	// WeightScaling bounds the totals of the adaptive models coding
	// transition weights.
	WeightScaling = 500
)
