package services

import "strings"

// ParseNameEmail sniffs a candidate name and email address from the top of a
// resume. The first short line without an @ is taken as the name; the first
// token containing both @ and a dot is taken as the email. Either may come
// back empty.
func ParseNameEmail(text string) (name, email string) {
	lines := strings.Split(text, "\n")
	if len(lines) > 8 {
		lines = lines[:8]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "@") && strings.Contains(trimmed, ".") {
			if email == "" {
				for _, part := range strings.Fields(trimmed) {
					if strings.Contains(part, "@") && strings.Contains(part, ".") {
						email = part
						break
					}
				}
			}
		} else if name == "" && len(trimmed) > 2 && len(strings.Fields(trimmed)) <= 4 {
			name = trimmed
		}
	}

	return name, email
}
