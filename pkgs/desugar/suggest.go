package desugar

import "github.com/lithammer/fuzzysearch/fuzzy"

// suggestName finds the closest match for an unresolved name among
// candidates (the names bound anywhere in the current Env chain), for
// attaching a "did you mean" hint to an Undefined fault.
func suggestName(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	return ranks[0].Target
}
