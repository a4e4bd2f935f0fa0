package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Vectorizer defaults, matching the trained-model contract: unigrams and
// bigrams, vocabulary capped at 5000 terms, no document-frequency floor
// beyond a single occurrence.
const (
	DefaultNgramMax    = 2
	DefaultMaxFeatures = 5000
	DefaultMinDocFreq  = 1
)

// Vectorizer maps texts to TF-IDF weighted sparse vectors over word n-grams.
// Fields are exported for gob serialization; treat them as read-only once
// fitted.
type Vectorizer struct {
	Vocabulary  map[string]int
	IDF         []float64
	NgramMax    int
	MaxFeatures int
	MinDocFreq  int
}

// NewVectorizer returns an unfitted vectorizer with default settings.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		NgramMax:    DefaultNgramMax,
		MaxFeatures: DefaultMaxFeatures,
		MinDocFreq:  DefaultMinDocFreq,
	}
}

// accentStripper removes diacritics: decompose, drop combining marks,
// recompose.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// tokenize lowercases, strips accents, and extracts word tokens of at least
// two runes.
func tokenize(text string) []string {
	cleaned := stripAccents(strings.ToLower(text))

	var tokens []string
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}
	for _, r := range cleaned {
		if isWordRune(r) {
			current = append(current, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// terms expands tokens into the n-gram feature terms for one document.
func (v *Vectorizer) terms(text string) []string {
	tokens := tokenize(text)
	terms := make([]string, 0, len(tokens)*v.NgramMax)
	for n := 1; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Fit learns the vocabulary and inverse document frequencies from docs.
// Terms below the document-frequency floor are excluded; when the remaining
// vocabulary exceeds MaxFeatures it is truncated to the most frequent terms,
// breaking ties alphabetically so fitting is deterministic.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("cannot fit vectorizer on empty document set")
	}

	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= v.MinDocFreq {
			kept = append(kept, term)
		}
	}

	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if docFreq[kept[i]] != docFreq[kept[j]] {
				return docFreq[kept[i]] > docFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.MaxFeatures]
	}
	sort.Strings(kept)

	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	total := float64(len(docs))
	for i, term := range kept {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+total)/(1+float64(docFreq[term]))) + 1
	}
	return nil
}

// Transform maps one document to its L2-normalized TF-IDF sparse vector.
// Terms outside the fitted vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range v.terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var sumSquares float64
	for idx := range vec {
		vec[idx] *= v.IDF[idx]
		sumSquares += vec[idx] * vec[idx]
	}
	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
