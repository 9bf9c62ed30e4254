package media

import "regexp"

// Compiled once at package init and shared by every worker.
var (
	bracketsRe = regexp.MustCompile(`\[.*?\]|\(.*?\)`)

	seasonTokenRe        = regexp.MustCompile(`(?i)^S(\d{1,2})$`)
	episodeTokenRe       = regexp.MustCompile(`(?i)^E(\d{1,3})$`)
	seasonEpisodeTokenRe = regexp.MustCompile(`(?i)^S(\d{1,2})E(\d{1,3})$`)
	ordinalTokenRe       = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)$`)
	numberTokenRe        = regexp.MustCompile(`^\d{1,3}$`)
	yearTokenRe          = regexp.MustCompile(`^(?:19|20)\d\d$`)

	movieWordRe   = regexp.MustCompile(`\b(?:Film|Movie)\b`)
	seriesMarkRe  = regexp.MustCompile(`(?i)S\d+E\d+`)
	seasonFallRe  = regexp.MustCompile(`S(\d{1,2})(?:E\d{1,2})?|Season[. ](\d{1,2})`)
	episodeFallRe = []*regexp.Regexp{
		regexp.MustCompile(`S\d+[. ](\d+)`),
		regexp.MustCompile(`S\d+E(\d+)`),
		regexp.MustCompile(`E(\d+)`),
		regexp.MustCompile(`Episode[. ](\d+)`),
	}

	// Ordered title fallbacks; the first capture group is the title.
	titleFallRe = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s*S\d{1,2}\s*E\d{1,3}\b`),
		regexp.MustCompile(`^(.+?)\s*S\d{1,2}\b`),
		regexp.MustCompile(`^(.+?)\s*E\d{1,3}\b`),
		regexp.MustCompile(`^(.+?)\s+\d{2}\b`),
		regexp.MustCompile(`^(.+?)\s+(?:19|20)\d\d\b`),
		regexp.MustCompile(`(?i)^(.+?)\s+(?:Part|Pt)\s*\d+\b`),
		regexp.MustCompile(`^(.+?)\s+\d+$`),
	}
)
