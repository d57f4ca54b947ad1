package domain

import "strings"

// NormalizeName lowercases a player name and collapses internal whitespace
// runs to single spaces.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// MatchFavoriteByName finds the favorite whose pitcher is named name. Matching
// runs in tiers: exact, then case-insensitive, then case-insensitive with
// whitespace collapsed. The first favorite matched by the earliest tier wins.
func MatchFavoriteByName(favorites []*FavoritePitcher, name string) *FavoritePitcher {
	tiers := []func(candidate string) bool{
		func(candidate string) bool { return candidate == name },
		func(candidate string) bool { return strings.EqualFold(candidate, name) },
		func(candidate string) bool { return NormalizeName(candidate) == NormalizeName(name) },
	}

	for _, match := range tiers {
		for _, f := range favorites {
			if f.Pitcher != nil && match(f.Pitcher.PlayerName) {
				return f
			}
		}
	}
	return nil
}

// DedupeNames drops repeated names, keeping each at the position of its last
// occurrence.
func DedupeNames(names []string) []string {
	last := make(map[string]int, len(names))
	for i, n := range names {
		last[n] = i
	}

	out := make([]string, 0, len(last))
	for i, n := range names {
		if last[n] == i {
			out = append(out, n)
		}
	}
	return out
}
