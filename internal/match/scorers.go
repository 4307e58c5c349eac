package match

import "sort"

// skillsResult carries the skills sub-score plus the explainability
// lists recorded into the breakdown. List building never affects the
// numeric score.
type skillsResult struct {
	Score            float64
	MatchedRequired  []string
	MissingRequired  []string
	MatchedPreferred []string
}

// scoreSkills computes required coverage and weighted preferred matches.
// When one set is empty the defined component alone determines the
// score; with both non-empty the configured shares combine them.
func (e *Engine) scoreSkills(resumeSkills []string, required []string, preferred map[string]float64) skillsResult {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[s] = struct{}{}
	}

	res := skillsResult{
		MatchedRequired:  []string{},
		MissingRequired:  []string{},
		MatchedPreferred: []string{},
	}

	requiredCoverage := 1.0
	if len(required) > 0 {
		for _, s := range required {
			if _, ok := have[s]; ok {
				res.MatchedRequired = append(res.MatchedRequired, s)
			} else {
				res.MissingRequired = append(res.MissingRequired, s)
			}
		}
		requiredCoverage = float64(len(res.MatchedRequired)) / float64(len(required))
	}

	preferredScore := 0.0
	if len(preferred) > 0 {
		var total, matched float64
		for s, w := range preferred {
			total += w
			if _, ok := have[s]; ok {
				matched += w
				res.MatchedPreferred = append(res.MatchedPreferred, s)
			}
		}
		if total > 0 {
			preferredScore = matched / total
		}
	}

	switch {
	case len(preferred) == 0:
		res.Score = requiredCoverage
	case len(required) == 0:
		res.Score = preferredScore
	default:
		res.Score = e.cfg.RequiredShare*requiredCoverage + e.cfg.PreferredShare*preferredScore
	}
	res.Score = clamp01(res.Score)

	sort.Strings(res.MatchedRequired)
	sort.Strings(res.MissingRequired)
	sort.Strings(res.MatchedPreferred)
	return res
}

// scoreExperience gives full credit at or above the job minimum and
// proportional credit below it. Exceeding the minimum earns no bonus.
func (e *Engine) scoreExperience(years float64, minimum int) float64 {
	if minimum <= 0 {
		return 1.0
	}
	if years <= 0 {
		return 0.0
	}
	return clamp01(years / float64(minimum))
}

// scoreEducation compares ordinal positions on the configured ladder.
// Each step of shortfall costs EducationPenalty, floored at 0. A job
// with no minimum (index 0) always scores 1.
func (e *Engine) scoreEducation(candidateIdx, requiredIdx int) float64 {
	if requiredIdx <= 0 {
		return 1.0
	}
	if candidateIdx >= requiredIdx {
		return 1.0
	}
	score := 1.0 - e.cfg.EducationPenalty*float64(requiredIdx-candidateIdx)
	return clamp01(score)
}

// aggregate combines the four sub-scores with the configured weights
func (e *Engine) aggregate(skills, experience, education, semantic float64) float64 {
	w := e.cfg.Weights
	overall := w.Skills*skills + w.Experience*experience + w.Education*education + w.Semantic*semantic
	return clamp01(overall)
}
