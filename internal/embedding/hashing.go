package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/textseg"
)

// DefaultHashingDimensions is the vector size of the local provider.
const DefaultHashingDimensions = 512

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Hashing is a local, dependency-free provider. Each text becomes a signed
// feature-hashed vector of sublinear term frequencies over its content words
// and their character trigrams, L2-normalized. Vectors depend only on the
// text itself, so results are deterministic and cacheable.
type Hashing struct {
	dims int
}

// NewHashing creates a hashing provider. Non-positive dims use the default.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

// Name returns "hashing/<dims>".
func (h *Hashing) Name() string {
	return fmt.Sprintf("%s/%d", KindHashing, h.dims)
}

// Embed vectorizes each text independently.
func (h *Hashing) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float32 {
	counts := make(map[string]float64)
	for _, w := range textseg.Words(text) {
		w = strings.ToLower(w)
		if keywords.IsStopword(w) {
			continue
		}
		counts["w:"+w] += wordWeight
		padded := []rune("<" + w + ">")
		for i := 0; i+3 <= len(padded); i++ {
			counts["c:"+string(padded[i:i+3])] += trigramWeight
		}
	}

	acc := make([]float64, h.dims)
	for feature, tf := range counts {
		idx, sign := h.slot(feature)
		acc[idx] += sign * (1 + math.Log(1+tf))
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, h.dims)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// slot hashes a feature to an index and a ±1 sign.
func (h *Hashing) slot(feature string) (int, float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	sign := 1.0
	if sum&(1<<63) != 0 {
		sign = -1.0
	}
	return int(sum % uint64(h.dims)), sign
}
