package alert

import "strings"

// allClearTerm is the German stand-down notice. An alert containing it is
// never delivered, even when bomb keywords are also present, because it
// supersedes the warning it refers to.
const allClearTerm = "entwarnung"

// bombKeywords are the German terms that mark a civil-defense alert as
// bomb-related. Matching is case-insensitive substring matching with no
// stemming or tokenization.
var bombKeywords = []string{
	"bombe", "bomben", "bombenfund", "bombenentschärfung", "bombenverdacht",
	"fliegerbombe", "fliegerbomben", "weltkriegsbombe", "sprengkörper",
	"kampfmittel", "explosiv", "entschärfung", "evakuierung", "evakuierungsmaßnahmen",
}

// IsAllClear reports whether the alert text carries the all-clear term in
// either its title or details.
func IsAllClear(title, details string) bool {
	title = strings.ToLower(title)
	details = strings.ToLower(details)

	return strings.Contains(title, allClearTerm) || strings.Contains(details, allClearTerm)
}

// IsBombRelated decides whether an alert should be delivered.
//
// An all-clear alert is rejected unconditionally. Otherwise the alert
// qualifies when at least one bomb keyword appears in the lowercased title
// or details.
func IsBombRelated(title, details string) bool {
	if IsAllClear(title, details) {
		return false
	}

	title = strings.ToLower(title)
	details = strings.ToLower(details)

	for _, keyword := range bombKeywords {
		if strings.Contains(title, keyword) || strings.Contains(details, keyword) {
			return true
		}
	}

	return false
}
