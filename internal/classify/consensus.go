package classify

import (
	"github.com/jonathan/agent-registration/internal/types"
)

// Config holds the consensus pass tuning constants. The defaults are the
// only values the pass has ever shipped with; they are configuration rather
// than constants because no derivation for them is documented.
type Config struct {
	// Window is the number of neighboring fields inspected on each side.
	Window int `json:"window"`
	// SkipThreshold is the neighbor count needed to rescue a skipped field.
	SkipThreshold int `json:"skip_threshold"`
	// GenericThreshold is the neighbor count needed to override a generic
	// attribute or computed target.
	GenericThreshold int `json:"generic_threshold"`
}

// DefaultConfig returns the standard consensus tuning.
func DefaultConfig() Config {
	return Config{Window: 5, SkipThreshold: 1, GenericThreshold: 2}
}

// applyConsensus corrects weakly-classified fields using the classifications
// of nearby fields in document order. Only the original, pre-correction
// targets are consulted, so a correction never cascades into the next one;
// the pass runs exactly once and is not iterated to a fixed point.
func applyConsensus(fields []types.FieldDescriptor, targets []types.MappingTarget, sensitive []bool, cfg Config) []types.MappingTarget {
	// A threshold below 1 would let an empty neighborhood (bestCount 0)
	// reassign every weak field to the zero addendum kind.
	if cfg.Window <= 0 || cfg.SkipThreshold < 1 || cfg.GenericThreshold < 1 {
		cfg = DefaultConfig()
	}

	corrected := make([]types.MappingTarget, len(targets))
	copy(corrected, targets)

	for i, t := range targets {
		threshold := 0
		switch {
		case t.IsSkip() && !sensitive[i]:
			threshold = cfg.SkipThreshold
		case genericTargets[t.String()]:
			threshold = cfg.GenericThreshold
		default:
			continue
		}

		counts := map[types.AddendumKind]int{}
		lo, hi := i-cfg.Window, i+cfg.Window
		for j := lo; j <= hi; j++ {
			if j < 0 || j >= len(targets) || j == i {
				continue
			}
			if targets[j].Kind == types.TargetTypedAddendum {
				counts[targets[j].Addendum]++
			}
		}

		best, bestCount := types.AddendumKind(""), 0
		for _, kind := range types.AddendumKinds {
			if counts[kind] > bestCount {
				best, bestCount = kind, counts[kind]
			}
		}
		if bestCount >= threshold {
			corrected[i] = types.TypedAddendum(best)
		}
	}

	return corrected
}
