package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"recruitpme/cv-matcher/internal/models"
)

var (
	// ErrNoJobText is returned when the job offer carries no usable text.
	ErrNoJobText = errors.New("job offer has no text")
	// ErrNoValidDocuments is returned when every candidate document is
	// empty or failed extraction.
	ErrNoValidDocuments = errors.New("no valid documents to match")
)

type MatchService interface {
	MatchCandidates(ctx context.Context, job models.JobOffer, docs []models.Document) ([]models.MatchResult, error)
	AnalyzeCV(doc models.Document) (models.CVAnalysis, error)
	AnalyzeJob(job models.JobOffer) models.JobAnalysis
}

type matchService struct {
	processor   TextProcessor
	encoder     TextEncoder
	matcher     Matcher
	analyzer    EntityAnalyzer
	summarizer  MatchSummarizer
	concurrency int
	logger      *zap.Logger
}

func NewMatchService(
	processor TextProcessor,
	encoder TextEncoder,
	matcher Matcher,
	analyzer EntityAnalyzer,
	summarizer MatchSummarizer,
	concurrency int,
	logger *zap.Logger,
) MatchService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &matchService{
		processor:   processor,
		encoder:     encoder,
		matcher:     matcher,
		analyzer:    analyzer,
		summarizer:  summarizer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// buildJobText concatenates the offer fields into one text blob, the form
// both the encoder and the analyzer consume.
func buildJobText(job models.JobOffer) string {
	var b strings.Builder
	b.WriteString(job.Title)
	b.WriteString("\n")
	b.WriteString(job.Description)

	if len(job.Skills) > 0 {
		b.WriteString("\nrequired skills: ")
		b.WriteString(strings.Join(job.Skills, ", "))
	}
	if job.ExperienceLevel != "" {
		b.WriteString("\nexperience level: ")
		b.WriteString(job.ExperienceLevel)
	}

	return b.String()
}

// MatchCandidates encodes the job once, encodes every non-empty candidate
// document concurrently, ranks them, and explains each match against the
// raw (un-normalized) texts. Empty documents are skipped without failing
// the batch.
func (s *matchService) MatchCandidates(ctx context.Context, job models.JobOffer, docs []models.Document) ([]models.MatchResult, error) {
	jobText := buildJobText(job)
	if strings.TrimSpace(jobText) == "" {
		return nil, ErrNoJobText
	}

	jobVector, err := s.encoder.Encode(ctx, s.processor.CleanJobText(jobText))
	if err != nil {
		return nil, fmt.Errorf("failed to encode job offer: %w", err)
	}

	valid := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			s.logger.Warn("skipping candidate with empty text", zap.String("id", doc.ID))
			continue
		}
		valid = append(valid, doc)
	}
	if len(valid) == 0 {
		return nil, ErrNoValidDocuments
	}

	vectors := make([][]float32, len(valid))
	encodeErrs := make([]error, len(valid))

	// Candidates are independent; encode them with a bounded pool. Set the
	// concurrency to 1 when the embedding backend cannot take concurrent
	// calls.
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vector, err := s.encoder.Encode(ctx, s.processor.CleanCVText(valid[i].Text))
				vectors[i] = vector
				encodeErrs[i] = err
			}
		}()
	}
	for i := range valid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	candidates := make([]CandidateEmbedding, 0, len(valid))
	texts := make(map[string]string, len(valid))
	var firstErr error
	for i, doc := range valid {
		if encodeErrs[i] != nil {
			if firstErr == nil {
				firstErr = encodeErrs[i]
			}
			s.logger.Warn("skipping candidate, encoding failed",
				zap.String("id", doc.ID),
				zap.Error(encodeErrs[i]),
			)
			continue
		}
		candidates = append(candidates, CandidateEmbedding{ID: doc.ID, Vector: vectors[i]})
		texts[doc.ID] = doc.Text
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("failed to encode candidates: %w", firstErr)
	}

	records := s.matcher.RankCandidates(candidates, jobVector)

	results := make([]models.MatchResult, 0, len(records))
	for _, record := range records {
		summary := s.summarizer.GenerateSummary(texts[record.ID], jobText, record.Similarity, record.Score)

		skills := make([]string, 0, len(summary.MatchedSkills)+len(summary.MissingSkills))
		skills = append(skills, summary.MatchedSkills...)
		skills = append(skills, summary.MissingSkills...)

		results = append(results, models.MatchResult{
			Filename:        record.ID,
			Score:           record.Score,
			Summary:         summary.Text,
			Skills:          skills,
			ExperienceYears: summary.ExperienceYears,
			ExperienceLevel: summary.ExperienceLevel,
			MatchedSkills:   summary.MatchedSkills,
			MissingSkills:   summary.MissingSkills,
		})
	}

	s.logger.Info("matching finished",
		zap.String("job_title", job.Title),
		zap.Int("candidates", len(results)),
	)

	return results, nil
}

// AnalyzeCV runs the entity analysis over one document without any job
// comparison.
func (s *matchService) AnalyzeCV(doc models.Document) (models.CVAnalysis, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return models.CVAnalysis{}, ErrNoValidDocuments
	}

	analysis := s.analyzer.AnalyzeCV(doc.Text)

	return models.CVAnalysis{
		Filename:        doc.ID,
		Skills:          analysis.Skills,
		ExperienceYears: analysis.ExperienceYears,
		ExperienceLevel: analysis.ExperienceLevel,
		Education:       analysis.Education,
	}, nil
}

// AnalyzeJob extracts skills and required experience from the offer text.
func (s *matchService) AnalyzeJob(job models.JobOffer) models.JobAnalysis {
	jobText := buildJobText(job)

	provided := job.Skills
	if provided == nil {
		provided = []string{}
	}

	return models.JobAnalysis{
		Title:           job.Title,
		Skills:          s.analyzer.ExtractSkills(jobText),
		ExperienceYears: s.analyzer.ExtractExperienceYears(jobText),
		ProvidedSkills:  provided,
	}
}
