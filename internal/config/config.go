package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Matching MatchingConfig
	Analysis AnalysisConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey     string
	EmbedModel string
}

type MatchingConfig struct {
	SimilarityThreshold float64
	MinScore            int
	MaxScore            int
	ChunkSize           int
	ChunkOverlap        int
	EmbeddingDimension  int
}

type AnalysisConfig struct {
	SkillVocabulary     []string
	OrgEntitiesAsSkills bool
	ReferenceYear       int
}

type StorageConfig struct {
	UploadPath        string
	MaxFileSize       int64
	AllowedExtensions []string
}

type WorkerConfig struct {
	Concurrency int
}

// defaultSkillVocabulary is the fixed term list used for whole-word skill
// matching. French terms are kept alongside English ones since CVs in both
// languages are expected.
var defaultSkillVocabulary = []string{
	"python", "java", "javascript", "typescript", "c++", "react", "angular",
	"node.js", "express", "flask", "django", "spring", "php", "html", "css",
	"sql", "postgresql", "mysql", "mongodb", "aws", "azure", "docker", "kubernetes",
	"git", "ci/cd", "agile", "scrum", "développement", "programmation", "algorithmique",
	"machine learning", "intelligence artificielle", "nlp", "react.js",
	"vue.js", "web", "backend", "frontend", "full stack", "devops", "sécurité",
	"mobile", "android", "ios", "swift", "kotlin", "flutter", "react native",
	"go", "golang", "rust", "terraform", "graphql", "redis", "elasticsearch",
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Matching: MatchingConfig{
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.5),
			MinScore:            getEnvAsInt("MIN_SCORE", 0),
			MaxScore:            getEnvAsInt("MAX_SCORE", 100),
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 512),
			ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 100),
			EmbeddingDimension:  getEnvAsInt("EMBEDDING_DIMENSION", 768),
		},
		Analysis: AnalysisConfig{
			SkillVocabulary:     getEnvAsSlice("SKILL_VOCABULARY", defaultSkillVocabulary),
			OrgEntitiesAsSkills: getEnvAsBool("ORG_ENTITIES_AS_SKILLS", true),
			ReferenceYear:       getEnvAsInt("REFERENCE_YEAR", time.Now().Year()),
		},
		Storage: StorageConfig{
			UploadPath:        getEnv("UPLOAD_PATH", "./uploads/cvs"),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			AllowedExtensions: getEnvAsSlice("ALLOWED_EXTENSIONS", []string{".pdf"}),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
