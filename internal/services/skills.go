package services

import (
	"regexp"
	"strings"
)

// commonSkills is the reference vocabulary scanned against every JD in
// addition to any labeled skills section. Vocabulary hits are appended in
// definition order.
var commonSkills = []string{
	"python", "java", "c++", "react", "node", "sql", "aws", "docker",
	"kubernetes", "ml", "django", "flask", "tensorflow", "pytorch",
}

var (
	skillSectionRe = regexp.MustCompile(`(skills|requirements|must have|must-have)[:\-\s]\s*([^\n]+)`)
	skillSplitRe   = regexp.MustCompile(`[,;\n]`)
)

type SkillExtractor interface {
	ExtractSkills(jdText string) []string
}

type skillExtractor struct{}

func NewSkillExtractor() SkillExtractor {
	return &skillExtractor{}
}

// ExtractSkills derives an ordered, deduplicated skill list from a job
// description. Tokens from a labeled "skills"/"requirements"/"must have"
// section come first in textual order, then reference-vocabulary hits found
// anywhere in the text. Returns nil when the JD names no skills.
func (e *skillExtractor) ExtractSkills(jdText string) []string {
	text := strings.ToLower(jdText)

	var skills []string
	if m := skillSectionRe.FindStringSubmatch(text); m != nil {
		for _, tok := range skillSplitRe.Split(m[2], -1) {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				skills = append(skills, tok)
			}
		}
	}

	for _, vocab := range commonSkills {
		if strings.Contains(text, vocab) && !containsString(skills, vocab) {
			skills = append(skills, vocab)
		}
	}

	return dedupeStrings(skills)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// dedupeStrings removes duplicates keeping the first occurrence.
func dedupeStrings(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
