package models

// Document is a CV document after text extraction. Text may be empty when
// extraction failed; the pipeline skips such documents instead of failing
// the whole batch.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"-"`
}

// JobOffer is the caller-supplied description of the position to match
// against. Skills and ExperienceLevel are optional hints appended to the
// job text blob before encoding.
type JobOffer struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
}

// MatchResult is the per-candidate outcome of a ranking request.
type MatchResult struct {
	Filename        string   `json:"filename"`
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	ExperienceLevel string   `json:"experience_level"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

type MatchResponse struct {
	Results []MatchResult `json:"results"`
}

// CVAnalysis is the single-CV analysis result, without any job comparison.
type CVAnalysis struct {
	Filename        string   `json:"filename"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	ExperienceLevel string   `json:"experience_level"`
	Education       []string `json:"education"`
}

// JobAnalysis is the job-only analysis result.
type JobAnalysis struct {
	Title           string   `json:"title"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	ProvidedSkills  []string `json:"provided_skills"`
}
