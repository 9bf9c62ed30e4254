package media

// MatchSubtitles binds every subtitle whose cleaned name equals an Episode's
// cleaned name to that Episode. Unmatched subtitles keep their stub. When two
// Episodes share a cleaned name the first one scanned wins.
func MatchSubtitles(lib *Library) int {
	index := make(map[string]int, len(lib.Episodes))
	for i, ep := range lib.Episodes {
		if _, seen := index[ep.CleanedName]; !seen {
			index[ep.CleanedName] = i
		}
	}

	matched := 0
	for i := range lib.Subtitles {
		if idx, ok := index[lib.Subtitles[i].CleanedName]; ok {
			lib.Subtitles[i].EpisodeIndex = idx
			matched++
		}
	}
	return matched
}
