package matching

import "strings"

// SkillMatchResult carries the bounded skill score plus the matched and
// missing term sets for one candidate/job comparison.
type SkillMatchResult struct {
	Score   float64
	Matched []string
	Missing []string
}

// SkillMatcher compares candidate skills against required and preferred job
// skills. The alias table is injected so tests can substitute fixtures.
type SkillMatcher struct {
	aliases map[string][]string
}

func NewSkillMatcher(aliases map[string][]string) *SkillMatcher {
	if aliases == nil {
		aliases = DefaultSkillAliases()
	}
	return &SkillMatcher{aliases: aliases}
}

// DefaultSkillAliases maps a base skill to the variant spellings that count
// as the same skill.
func DefaultSkillAliases() map[string][]string {
	return map[string][]string{
		"javascript":       {"js", "node.js", "nodejs"},
		"python":           {"py"},
		"machine learning": {"ml", "ai", "artificial intelligence"},
		"database":         {"db", "sql"},
		"react":            {"reactjs", "react.js"},
		"angular":          {"angularjs"},
	}
}

// Match scores candidate skills against the required and preferred lists.
// Required skills carry 70% of the weight, preferred 30%. An empty required
// or preferred list counts as full coverage; an empty candidate list scores
// zero with everything missing.
func (m *SkillMatcher) Match(candidateSkills, required, preferred []string) SkillMatchResult {
	required = normalizeTerms(required)
	preferred = normalizeTerms(preferred)

	if len(candidateSkills) == 0 {
		return SkillMatchResult{
			Score:   0,
			Matched: []string{},
			Missing: append(append([]string{}, required...), preferred...),
		}
	}

	candidate := normalizeTerms(candidateSkills)

	matchedRequired := m.matchAgainst(candidate, required)
	matchedPreferred := m.matchAgainst(candidate, preferred)

	requiredCoverage := 1.0
	if len(required) > 0 {
		requiredCoverage = float64(len(matchedRequired)) / float64(len(required))
	}
	preferredCoverage := 1.0
	if len(preferred) > 0 {
		preferredCoverage = float64(len(matchedPreferred)) / float64(len(preferred))
	}

	score := (requiredCoverage*0.7 + preferredCoverage*0.3) * 100
	if score > 100 {
		score = 100
	}

	matched := make([]string, 0, len(matchedRequired)+len(matchedPreferred))
	matched = append(matched, matchedRequired...)
	matched = append(matched, matchedPreferred...)

	missing := make([]string, 0)
	missing = append(missing, subtract(required, matchedRequired)...)
	missing = append(missing, subtract(preferred, matchedPreferred)...)

	return SkillMatchResult{Score: score, Matched: matched, Missing: missing}
}

// matchAgainst returns the job terms some candidate skill is similar to,
// deduplicated, in job-list order.
func (m *SkillMatcher) matchAgainst(candidate, jobTerms []string) []string {
	matched := make([]string, 0, len(jobTerms))
	for _, term := range jobTerms {
		for _, skill := range candidate {
			if m.similar(skill, term) {
				matched = append(matched, term)
				break
			}
		}
	}
	return matched
}

// similar reports whether two normalized terms name the same skill: equal,
// one contains the other, or they co-occur in the alias table. Substring
// checks skip single-character tokens, which otherwise match almost anything.
func (m *SkillMatcher) similar(a, b string) bool {
	if a == b {
		return true
	}

	if len(a) > 1 && len(b) > 1 && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return true
	}

	for base, variants := range m.aliases {
		for _, v := range variants {
			if (a == base && b == v) || (b == base && a == v) {
				return true
			}
		}
	}
	return false
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func subtract(all, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		removed[r] = struct{}{}
	}

	out := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := removed[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
