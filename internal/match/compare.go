package match

import (
	"sort"
	"strings"

	"resumate/internal/types"
)

// CompareSkills computes the overlap between resume skills and JD skills.
// Comparison is case-insensitive; output terms are lowercase and sorted.
// The skill fit index is |matched| / |jd skills|; an empty JD skill list
// yields a fit of 1.0 since there is nothing to miss.
func CompareSkills(resumeSkills, jdSkills []string) types.SkillComparison {
	resumeSet := normalizeSet(resumeSkills)
	jdSet := normalizeSet(jdSkills)

	if len(jdSet) == 0 {
		return types.SkillComparison{
			Matched:       []string{},
			Missing:       []string{},
			SkillFitIndex: 1.0,
		}
	}

	matched := make([]string, 0, len(jdSet))
	missing := make([]string, 0, len(jdSet))
	for skill := range jdSet {
		if _, ok := resumeSet[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	return types.SkillComparison{
		Matched:       matched,
		Missing:       missing,
		SkillFitIndex: float64(len(matched)) / float64(len(jdSet)),
	}
}

// normalizeSet lowercases and trims terms, dropping empties
func normalizeSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			set[skill] = struct{}{}
		}
	}
	return set
}
