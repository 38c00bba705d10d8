package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode"

	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

// Lexicon is the local scoring backend: a deterministic, in-process
// valence lexicon with negation and intensity handling. It never
// performs I/O and yields a real score for every document, so it has no
// partial-failure mode.
type Lexicon struct{}

var _ ports.SentimentBackend = (*Lexicon)(nil)

// NewLexicon builds the local backend.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Name identifies the backend in config and the run ledger.
func (l *Lexicon) Name() string {
	return "lexicon"
}

// ScoreBatch scores every text in input order.
func (l *Lexicon) ScoreBatch(ctx context.Context, texts []string) ([]domain.Score, error) {
	out := make([]domain.Score, len(texts))
	for i, text := range texts {
		out[i] = scoreText(text)
	}
	return out, nil
}

// Label thresholds on the compound polarity score.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// normalization constant for the compound score
const alpha = 15

func scoreText(text string) domain.Score {
	tokens := tokenize(text)

	var (
		valences []float64
		neutral  int
	)
	for i, tok := range tokens {
		v, ok := valenceLexicon[tok]
		if !ok {
			if _, negator := negators[tok]; !negator {
				if _, booster := boosters[tok]; !booster {
					neutral++
				}
			}
			continue
		}
		v = applyBoosters(v, tokens, i)
		v = applyNegation(v, tokens, i)
		valences = append(valences, v)
	}

	var total float64
	for _, v := range valences {
		total += v
	}
	compound := total / math.Sqrt(total*total+alpha)

	var posSum, negSum float64
	for _, v := range valences {
		if v > 0 {
			posSum += v + 1
		} else if v < 0 {
			negSum += math.Abs(v) + 1
		}
	}

	score := domain.Score{Label: labelFor(compound)}
	if denom := posSum + negSum + float64(neutral); denom > 0 {
		score.Pos = round3(posSum / denom)
		score.Neu = round3(float64(neutral) / denom)
		score.Neg = round3(negSum / denom)
	}
	return score
}

func labelFor(compound float64) domain.Sentiment {
	switch {
	case compound > positiveThreshold:
		return domain.SentimentPositive
	case compound < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// applyBoosters scales the valence for intensifiers or dampeners among
// the three preceding tokens, with decaying weight by distance.
func applyBoosters(v float64, tokens []string, i int) float64 {
	for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
		b, ok := boosters[tokens[i-dist]]
		if !ok {
			continue
		}
		scaled := b * (1 - 0.05*float64(dist-1))
		if v > 0 {
			v += scaled
		} else {
			v -= scaled
		}
	}
	return v
}

// applyNegation flips and dampens the valence when a negator appears
// within the three preceding tokens.
func applyNegation(v float64, tokens []string, i int) float64 {
	for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
		if _, ok := negators[tokens[i-dist]]; ok {
			return v * -0.74
		}
	}
	return v
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
