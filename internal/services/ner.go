package services

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"recruitpme/cv-matcher/internal/config"
)

// Experience levels derived from estimated years of experience.
const (
	LevelJunior = "junior"
	LevelSenior = "senior"
	LevelExpert = "expert"
)

// CVAnalysisResult holds everything the analyzer can pull out of free text.
// Every field degrades to its zero value when no signal is found; absence of
// data is never an error.
type CVAnalysisResult struct {
	Skills          []string
	ExperienceYears *int
	Education       []string
	ExperienceLevel string
}

type EntityAnalyzer interface {
	ExtractSkills(text string) []string
	ExtractExperienceYears(text string) *int
	ExtractEducation(text string) []string
	AnalyzeCV(text string) CVAnalysisResult
}

type entityAnalyzer struct {
	recognizer    EntityRecognizer
	vocabulary    []string
	vocabPatterns []*regexp.Regexp
	orgAsSkills   bool
	referenceYear int
	logger        *zap.Logger
}

func NewEntityAnalyzer(recognizer EntityRecognizer, cfg config.AnalysisConfig, logger *zap.Logger) EntityAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.SkillVocabulary))
	for _, term := range cfg.SkillVocabulary {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(term))+`\b`))
	}

	return &entityAnalyzer{
		recognizer:    recognizer,
		vocabulary:    cfg.SkillVocabulary,
		vocabPatterns: patterns,
		orgAsSkills:   cfg.OrgEntitiesAsSkills,
		referenceYear: cfg.ReferenceYear,
		logger:        logger,
	}
}

// Explicit experience phrasing, English and French, tried in order. The
// first capture wins.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*ans?\s+d['’]expérience`),
	regexp.MustCompile(`(?i)expérience\s*(?:professionnelle\s*)?:?\s*(\d+)\s*ans?`),
	regexp.MustCompile(`(?i)(\d+)\s*years?\s+of\s+experience`),
	regexp.MustCompile(`(?i)experience\s*:?\s*(\d+)\s*years?`),
}

// Employment ranges like "2015-2020", "2018 — present" or "2019 to 2021".
var periodRe = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*(?:[-–—à]|to\b|until\b)\s*((?:19|20)\d{2}|présent|present|aujourd['’]hui|actuel|today|current|now)`)

var presentRe = regexp.MustCompile(`(?i)^(?:présent|present|aujourd['’]hui|actuel|today|current|now)$`)

// Diploma and institution vocabulary for education paragraph detection.
var diplomaTerms = []string{
	"bac", "baccalauréat", "bts", "dut", "licence", "master", "doctorat", "phd",
	"diplôme", "diplome", "ingénieur", "ingenieur", "mba", "formation",
	"certificat", "certification", "école", "ecole", "université", "universite",
	"bachelor", "university", "degree",
}

var diplomaPatterns = compileWordPatterns(diplomaTerms)

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

func compileWordPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return patterns
}

// ExtractSkills unions two sources: whole-word matches against the
// configured vocabulary, and entities the recognizer tags as organizations.
// General-purpose NER mislabels many tool and technology names as ORG, which
// is exactly the net being cast here; the resulting false positives are
// accepted noise and can be disabled via configuration.
func (a *entityAnalyzer) ExtractSkills(text string) []string {
	lowered := strings.ToLower(text)

	skills := make([]string, 0)
	seen := make(map[string]bool)

	for i, pattern := range a.vocabPatterns {
		if pattern.MatchString(lowered) {
			term := strings.ToLower(a.vocabulary[i])
			if !seen[term] {
				seen[term] = true
				skills = append(skills, term)
			}
		}
	}

	if a.orgAsSkills && a.recognizer != nil {
		// The recognizer gets the original casing: capitalization is the
		// main feature entity detection keys on. Candidates are lowercased
		// below before joining the skill set.
		entities, err := a.recognizer.Entities(text)
		if err != nil {
			// Degraded signal, not an error: vocabulary matches still stand.
			a.logger.Warn("entity recognition failed", zap.Error(err))
		}

		for _, entity := range entities {
			if entity.Label != LabelOrganization {
				continue
			}
			candidate := strings.ToLower(strings.TrimSpace(entity.Text))
			if len([]rune(candidate)) <= 1 || seen[candidate] {
				continue
			}
			seen[candidate] = true
			skills = append(skills, candidate)
		}
	}

	return skills
}

// ExtractExperienceYears first tries explicit phrasing, then falls back to
// summing detected employment ranges. Overlapping ranges are summed without
// deduplication; this over-counts concurrent positions and is a documented
// simplification, not tenure calculation.
func (a *entityAnalyzer) ExtractExperienceYears(text string) *int {
	for _, pattern := range experiencePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if years, err := strconv.Atoi(match[1]); err == nil {
			return &years
		}
	}

	return a.estimateFromEmploymentPeriods(text)
}

func (a *entityAnalyzer) estimateFromEmploymentPeriods(text string) *int {
	total := 0

	for _, match := range periodRe.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		var end int
		if presentRe.MatchString(match[2]) {
			end = a.referenceYear
		} else {
			end, err = strconv.Atoi(match[2])
			if err != nil {
				continue
			}
		}

		if end >= start {
			total += end - start
		}
	}

	if total <= 0 {
		return nil
	}
	return &total
}

// ExtractEducation returns every paragraph mentioning a diploma or
// institution term, whitespace-collapsed, in document order. Duplicates are
// possible.
func (a *entityAnalyzer) ExtractEducation(text string) []string {
	education := make([]string, 0)

	for _, paragraph := range paragraphSplitRe.Split(strings.ToLower(text), -1) {
		isEducation := false
		for _, pattern := range diplomaPatterns {
			if pattern.MatchString(paragraph) {
				isEducation = true
				break
			}
		}

		if isEducation {
			clean := strings.TrimSpace(whitespaceRe.ReplaceAllString(paragraph, " "))
			education = append(education, clean)
		}
	}

	return education
}

// AnalyzeCV runs the full extraction over one text. The tier starts at
// junior and is promoted by the senior then the expert threshold, so the
// higher one wins when both hold.
func (a *entityAnalyzer) AnalyzeCV(text string) CVAnalysisResult {
	skills := a.ExtractSkills(text)
	years := a.ExtractExperienceYears(text)
	education := a.ExtractEducation(text)

	level := LevelJunior
	if years != nil {
		if *years > 5 {
			level = LevelSenior
		}
		if *years > 10 {
			level = LevelExpert
		}
	}

	return CVAnalysisResult{
		Skills:          skills,
		ExperienceYears: years,
		Education:       education,
		ExperienceLevel: level,
	}
}
