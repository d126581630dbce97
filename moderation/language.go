package moderation

import "github.com/abadojack/whatlanggo"

// DetectLang returns the ISO 639-1 code of the text's detected language, or
// an empty string when detection is unreliable. Attached to relayed events
// for observability; the chat rules ask for Cyrillic-script conversation but
// the relay never blocks on it.
func DetectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
