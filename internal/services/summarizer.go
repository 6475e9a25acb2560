package services

import (
	"fmt"
	"math"
	"strings"
)

// MatchSummary explains one candidate-to-job match in recruiter terms.
type MatchSummary struct {
	Text                 string
	Score                int
	SkillMatchPercentage int
	MatchedSkills        []string
	MissingSkills        []string
	ExperienceYears      *int
	ExperienceLevel      string
	Education            []string
}

type MatchSummarizer interface {
	GenerateSummary(cvText, jobText string, similarity float64, score int) MatchSummary
}

type matchSummarizer struct {
	analyzer EntityAnalyzer
}

func NewMatchSummarizer(analyzer EntityAnalyzer) MatchSummarizer {
	return &matchSummarizer{analyzer: analyzer}
}

// GenerateSummary re-analyzes the raw CV and job texts, builds the
// matched/missing skill sets as fresh set operations, and renders the
// explanation sentence. Matched skills keep the CV's discovery order.
func (s *matchSummarizer) GenerateSummary(cvText, jobText string, similarity float64, score int) MatchSummary {
	cvAnalysis := s.analyzer.AnalyzeCV(cvText)
	jobSkills := s.analyzer.ExtractSkills(jobText)

	jobSet := make(map[string]bool, len(jobSkills))
	for _, skill := range jobSkills {
		jobSet[skill] = true
	}
	cvSet := make(map[string]bool, len(cvAnalysis.Skills))
	for _, skill := range cvAnalysis.Skills {
		cvSet[skill] = true
	}

	matched := make([]string, 0)
	for _, skill := range cvAnalysis.Skills {
		if jobSet[skill] {
			matched = append(matched, skill)
		}
	}

	missing := make([]string, 0)
	for _, skill := range jobSkills {
		if !cvSet[skill] {
			missing = append(missing, skill)
		}
	}

	percentage := 0
	if len(jobSkills) > 0 {
		percentage = int(math.Round(float64(len(matched)) / float64(len(jobSkills)) * 100))
	}

	text := buildSummaryText(cvAnalysis.ExperienceYears, cvAnalysis.ExperienceLevel, matched, len(jobSkills), percentage, score)

	return MatchSummary{
		Text:                 text,
		Score:                score,
		SkillMatchPercentage: percentage,
		MatchedSkills:        matched,
		MissingSkills:        missing,
		ExperienceYears:      cvAnalysis.ExperienceYears,
		ExperienceLevel:      cvAnalysis.ExperienceLevel,
		Education:            cvAnalysis.Education,
	}
}

func buildSummaryText(experienceYears *int, experienceLevel string, matched []string, totalJobSkills, percentage, score int) string {
	// A captured zero ("0 years of experience" in the CV) reads oddly
	// spelled out; it gets the bare tier sentence like an absent value.
	var summary string
	if experienceYears != nil && *experienceYears > 0 {
		summary = fmt.Sprintf("%s profile with %d years of experience", capitalize(experienceLevel), *experienceYears)
	} else {
		summary = fmt.Sprintf("%s profile", capitalize(experienceLevel))
	}

	if len(matched) > 0 {
		var skillsStr string
		if len(matched) > 3 {
			skillsStr = strings.Join(matched[:3], ", ") + fmt.Sprintf(" and %d more", len(matched)-3)
		} else {
			skillsStr = strings.Join(matched, ", ")
		}
		summary += ", proficient in " + skillsStr
	}

	if totalJobSkills > 0 {
		summary += fmt.Sprintf(". Matches %d%% of the required skills", percentage)
	}

	switch {
	case score >= 80:
		summary += ". Excellent candidate for this position."
	case score >= 60:
		summary += ". Good candidate for this position."
	case score >= 40:
		summary += ". Potential candidate worth considering."
	default:
		summary += ". Weak fit for this position."
	}

	return summary
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
