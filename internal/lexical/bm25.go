package lexical

import "math"

// BM25 tuning constants.
const (
	// K1 controls term-frequency saturation.
	K1 = 1.5

	// B controls document-length normalisation.
	B = 0.75

	// scoreCeiling is the empirical raw-score ceiling used to map BM25
	// scores into [0,1].
	scoreCeiling = 10.0
)

// CorpusStats holds per-term document frequency and average document
// length over a tokenised corpus. Stats are computed once per query and
// reused for every document scored against it.
type CorpusStats struct {
	docFreq   map[string]int
	docCount  int
	avgDocLen float64
}

// NewCorpusStats builds statistics over the tokenised documents.
func NewCorpusStats(docs [][]string) *CorpusStats {
	s := &CorpusStats{
		docFreq:  make(map[string]int),
		docCount: len(docs),
	}

	var totalLen int
	for _, doc := range docs {
		totalLen += len(doc)
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			s.docFreq[term]++
		}
	}

	if s.docCount > 0 {
		s.avgDocLen = float64(totalLen) / float64(s.docCount)
	}
	return s
}

// DocCount returns the number of documents in the corpus.
func (s *CorpusStats) DocCount() int {
	return s.docCount
}

// AvgDocLen returns the average document length in tokens.
func (s *CorpusStats) AvgDocLen() float64 {
	return s.avgDocLen
}

// idf is the smoothed inverse document frequency:
// ln((N - df + 0.5)/(df + 0.5) + 1). Always non-negative.
func (s *CorpusStats) idf(term string) float64 {
	df := float64(s.docFreq[term])
	n := float64(s.docCount)
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// Score computes the raw BM25 score of a tokenised document against the
// query terms.
func (s *CorpusStats) Score(queryTerms, docTerms []string) float64 {
	if s.docCount == 0 || len(docTerms) == 0 {
		return 0
	}

	tf := make(map[string]int, len(docTerms))
	for _, term := range docTerms {
		tf[term]++
	}

	docLen := float64(len(docTerms))
	lengthNorm := 1 - B + B*docLen/math.Max(s.avgDocLen, 1)

	var score float64
	for _, term := range queryTerms {
		f := float64(tf[term])
		if f == 0 {
			continue
		}
		score += s.idf(term) * (f * (K1 + 1)) / (f + K1*lengthNorm)
	}
	return score
}

// NormalizedScore maps a raw BM25 score into [0,1] by dividing by the
// empirical ceiling and clamping.
func (s *CorpusStats) NormalizedScore(queryTerms, docTerms []string) float64 {
	return math.Min(s.Score(queryTerms, docTerms)/scoreCeiling, 1.0)
}
