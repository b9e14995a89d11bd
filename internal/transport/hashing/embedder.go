// Package hashing is an offline embedding provider based on signed feature hashing.
// Texts sharing words land close together; it needs no model and no network, which makes
// it the default for local runs and tests.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// DefaultDimensions matches small sentence-transformer models.
const DefaultDimensions = 384

var (
	_ domain.Embedder      = (*Embedder)(nil)
	_ domain.BatchEmbedder = (*Embedder)(nil)
)

// Embedder hashes word unigrams and bigrams into a fixed number of buckets.
type Embedder struct {
	dim int
}

// NewEmbedder creates a hashing embedder. dim <= 0 selects DefaultDimensions.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Embedder{dim: dim}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int { return e.dim }

// Embed returns an L2-normalised vector. Empty or punctuation-only text maps to the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	tokens := tokenize(text)
	vec := make([]float32, e.dim)

	for i, tok := range tokens {
		e.add(vec, tok, 1)
		if i > 0 {
			e.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	normalize(vec)

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: len(tokens),
		TotalTokens:  len(tokens),
	}, nil
}

// BatchEmbed embeds each text independently.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	return domain.EmbedEach(ctx, e, texts)
}

func (e *Embedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dim))
	// the top bit decides the sign so that collisions tend to cancel out
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
