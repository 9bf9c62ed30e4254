package media

import "fmt"

// UnknownLanguage labels subtitles whose language could not be determined.
const UnknownLanguage = "Unknown"

// SeasonDir names the season folder. Season 0 means unknown and is filed as season 1.
func SeasonDir(season int) string {
	return fmt.Sprintf("S%02d", max(1, season))
}

// TargetName returns the library filename for an Episode.
func TargetName(ep Episode) string {
	return baseTargetName(ep) + "." + ep.Extension
}

// SubtitleTargetName returns the library filename for a subtitle bound to ep.
func SubtitleTargetName(sub Subtitle, ep Episode) string {
	lang := sub.Language
	if lang == "" {
		lang = UnknownLanguage
	}
	return baseTargetName(ep) + "." + lang + "." + sub.Extension
}

func baseTargetName(ep Episode) string {
	if ep.IsMovie {
		return ep.Title
	}
	if ep.Episode < 100 {
		return fmt.Sprintf("%s - E%02d", ep.Title, ep.Episode)
	}
	return fmt.Sprintf("%s - E%03d", ep.Title, ep.Episode)
}
