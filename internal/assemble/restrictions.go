package assemble

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/tgschema/internal/schema"
)

var (
	lengthPattern = regexp.MustCompile(`(\d+)-(\d+) characters?`)

	// Each enum pattern is applied repeatedly; the text matched by group 1 is
	// removed before the next attempt.
	enumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(“(\w+)” \([^(]+\),?\s?)`),
		regexp.MustCompile(`[Oo]ne of (“(\w+)”,?\s?(?:or )?)`),
	}
)

// Restrictions extracts length bounds and enum values from a field
// description. It returns nil when the description carries none.
func Restrictions(description string) *schema.Restrictions {
	var r schema.Restrictions

	if m := lengthPattern.FindStringSubmatch(description); m != nil {
		minLen, errMin := strconv.Atoi(m[1])
		maxLen, errMax := strconv.Atoi(m[2])
		if errMin == nil && errMax == nil {
			r.MinLength = &minLen
			r.MaxLength = &maxLen
		}
	}

	for _, re := range enumPatterns {
		text := description
		for {
			m := re.FindStringSubmatch(text)
			if m == nil || m[1] == "" {
				break
			}
			if !slices.Contains(r.Enum, m[2]) {
				r.Enum = append(r.Enum, m[2])
			}
			text = strings.ReplaceAll(text, m[1], "")
		}
	}

	if r.Empty() {
		return nil
	}
	return &r
}
