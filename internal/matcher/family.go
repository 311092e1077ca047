package matcher

import "strings"

// Family is a closed set of certification/subject keywords that are
// considered interchangeable for teacher-course matching (spec.md §4.2).
type Family string

const (
	FamilyScience       Family = "SCIENCE"
	FamilyMath          Family = "MATH"
	FamilyEnglish       Family = "ENGLISH"
	FamilySocialStudies Family = "SOCIAL_STUDIES"
	FamilyPE            Family = "PE"
	FamilyArts          Family = "ARTS"
	FamilyLanguages     Family = "LANGUAGES"
	FamilyComputing     Family = "COMPUTING"
)

// families maps each closed family to its keyword set, compiled once at
// package init and treated as an immutable shared cache thereafter
// (spec.md §5, "Regex/family-keyword patterns").
var families = map[Family]map[string]bool{
	FamilyScience: keywordSet(
		"science", "biology", "chemistry", "physics", "earth-science",
		"life-science", "physical-science",
	),
	FamilyMath: keywordSet(
		"math", "algebra", "geometry", "calculus", "trigonometry",
		"pre-calculus", "pre-algebra",
	),
	FamilyEnglish: keywordSet(
		"english", "literature", "language-arts", "writing", "reading",
		"composition",
	),
	FamilySocialStudies: keywordSet(
		"history", "geography", "civics", "government", "economics",
		"social-studies", "world-history", "us-history", "american-history",
	),
	FamilyPE: keywordSet(
		"physical-education", "pe", "health", "athletics", "fitness", "gym",
		"gymnastics",
	),
	FamilyArts: keywordSet(
		"art", "music", "drama", "theater", "theatre", "band", "chorus",
		"orchestra", "choir", "painting", "drawing", "visual-art",
	),
	FamilyLanguages: keywordSet(
		"spanish", "french", "german", "latin", "chinese", "japanese",
		"italian", "foreign-language",
	),
	FamilyComputing: keywordSet(
		"computer", "programming", "coding", "technology",
		"information-technology",
	),
}

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// normalize lower-cases and replaces internal whitespace with hyphens so
// "visual art" matches the "visual-art" keyword — comparison is whole-word,
// never substring ("literature" must not match "art").
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// MatchesExactly reports whether a and b are the same certification string
// under case-insensitive comparison.
func MatchesExactly(a, b string) bool {
	return normalize(a) == normalize(b)
}

// MatchesFamily reports whether subject belongs to the named family under
// whole-word keyword comparison.
func MatchesFamily(subject string, family Family) bool {
	set, ok := families[family]
	if !ok {
		return false
	}
	return set[normalize(subject)]
}

// familyOf returns the family a keyword belongs to, if any.
func familyOf(keyword string) (Family, bool) {
	norm := normalize(keyword)
	for family, set := range families {
		if set[norm] {
			return family, true
		}
	}
	return "", false
}

// Certified reports whether any of a teacher's certifications qualifies
// them to teach subject, and whether the qualification is an exact match
// (true) or only a family match (false).
func Certified(certifications []string, subject string) (qualified bool, exact bool) {
	subjectFamily, subjectHasFamily := familyOf(subject)
	normSubject := normalize(subject)
	for _, cert := range certifications {
		if normalize(cert) == normSubject {
			return true, true
		}
	}
	if !subjectHasFamily {
		return false, false
	}
	for _, cert := range certifications {
		if certFamily, ok := familyOf(cert); ok && certFamily == subjectFamily {
			return true, false
		}
	}
	return false, false
}
