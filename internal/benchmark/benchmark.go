// Package benchmark compares plain-LLM answers with RAG-augmented
// answers over a question set with known ground truth. Answers are
// embedded and scored by mean cosine similarity against the ground
// truth embeddings.
package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/storage/embfile"
	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// Question is one benchmark item.
type Question struct {
	Question    string `json:"question"`
	GroundTruth string `json:"ground_truth"`
}

// LoadQuestions reads a JSON array of questions.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parsing questions: %w", err)
	}
	return questions, nil
}

const ragPromptFormat = "Ответь на вопрос, опираясь на следующие рецепты.\n\n%s\n\nВопрос: %s"

// Embedding store file names under the benchmark save directory.
const (
	gtStoreFile  = "gt.mmap"
	llmStoreFile = "llm.mmap"
	ragStoreFile = "rag_llm.mmap"
)

// Config wires a benchmark run.
type Config struct {
	// ChatURL is an OpenAI-compatible chat endpoint; empty means the
	// public OpenAI API. The key comes from OPENAI_API_KEY.
	ChatURL   string
	ChatModel string

	// TopK recipes are retrieved as RAG context per question.
	TopK int

	// SaveDir receives the gt/llm/rag embedding store files.
	SaveDir string
}

// Runner executes the comparison.
type Runner struct {
	chat      *openai.Client
	chatModel string
	embedder  driven.EmbeddingService
	retriever *services.Retriever
	topK      int
	saveDir   string
}

// NewRunner creates a benchmark runner. The embedder scores answer
// similarity; the retriever supplies RAG context.
func NewRunner(cfg Config, embedder driven.EmbeddingService, retriever *services.Retriever) *Runner {
	clientCfg := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if cfg.ChatURL != "" {
		clientCfg.BaseURL = cfg.ChatURL
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = services.DefaultTopK
	}
	return &Runner{
		chat:      openai.NewClientWithConfig(clientCfg),
		chatModel: cfg.ChatModel,
		embedder:  embedder,
		retriever: retriever,
		topK:      topK,
		saveDir:   cfg.SaveDir,
	}
}

// Result summarises a benchmark run.
type Result struct {
	// Questions answered by both variants.
	Questions int

	// Failed questions (chat error on either variant), excluded from
	// the scores.
	Failed int

	// LLMSimilarity is the mean cosine similarity of plain-LLM
	// answers to the ground truth.
	LLMSimilarity float64

	// RAGSimilarity is the same for RAG-augmented answers.
	RAGSimilarity float64
}

// Run answers every question twice (plain and RAG-augmented), embeds
// the three answer sets into flat vector stores under SaveDir and
// reports mean cosine similarity against the ground truth.
func (r *Runner) Run(ctx context.Context, questions []Question) (Result, error) {
	var res Result
	if len(questions) == 0 {
		return res, nil
	}

	logger.Section("Benchmark")

	var gts, llmAnswers, ragAnswers []string
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		plain, err := r.ask(ctx, q.Question)
		if err != nil {
			logger.Warn("question %d: plain answer failed: %v", i, err)
			res.Failed++
			continue
		}

		augmented, err := r.askWithContext(ctx, q.Question)
		if err != nil {
			logger.Warn("question %d: RAG answer failed: %v", i, err)
			res.Failed++
			continue
		}

		gts = append(gts, q.GroundTruth)
		llmAnswers = append(llmAnswers, plain)
		ragAnswers = append(ragAnswers, augmented)
	}
	res.Questions = len(gts)
	if res.Questions == 0 {
		return res, fmt.Errorf("no question produced both answers")
	}

	if err := os.MkdirAll(r.saveDir, 0o755); err != nil {
		return res, fmt.Errorf("creating save dir: %w", err)
	}

	gtVecs, err := r.vectorizeInto(ctx, gts, gtStoreFile)
	if err != nil {
		return res, err
	}
	llmVecs, err := r.vectorizeInto(ctx, llmAnswers, llmStoreFile)
	if err != nil {
		return res, err
	}
	ragVecs, err := r.vectorizeInto(ctx, ragAnswers, ragStoreFile)
	if err != nil {
		return res, err
	}

	res.LLMSimilarity = meanCosine(gtVecs, llmVecs)
	res.RAGSimilarity = meanCosine(gtVecs, ragVecs)
	return res, nil
}

// ask sends a bare question to the chat model.
func (r *Runner) ask(ctx context.Context, question string) (string, error) {
	return r.complete(ctx, question)
}

// askWithContext retrieves top-k recipes and prepends them to the
// question.
func (r *Runner) askWithContext(ctx context.Context, question string) (string, error) {
	hits, err := r.retriever.Search(ctx, question, r.topK)
	if err != nil {
		return "", err
	}
	contextText := ""
	for _, h := range hits {
		contextText += h.Text + "\n\n"
	}
	return r.complete(ctx, fmt.Sprintf(ragPromptFormat, contextText, question))
}

func (r *Runner) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// vectorizeInto embeds the texts into a flat store file under SaveDir
// and reads the vectors back.
func (r *Runner) vectorizeInto(ctx context.Context, texts []string, name string) ([][]float32, error) {
	path := filepath.Join(r.saveDir, name)
	store, err := embfile.Create(path, len(texts), r.embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{ID: int64(i), Text: t}
	}

	report, err := services.NewVectorizer(r.embedder).Run(ctx, chunks, store)
	if err != nil {
		return nil, fmt.Errorf("vectorize %s: %w", name, err)
	}
	if report.FailedBatches > 0 {
		return nil, fmt.Errorf("vectorize %s: %d failed batches", name, report.FailedBatches)
	}

	vecs := make([][]float32, len(texts))
	for i := range texts {
		vec, err := store.ReadRow(i)
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", name, i, err)
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanCosine averages per-row cosine similarity across two equally
// sized vector sets.
func meanCosine(a, b [][]float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += cosineSimilarity(a[i], b[i])
	}
	return sum / float64(len(a))
}
