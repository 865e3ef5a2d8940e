package dialect

import (
	"strings"
)

// Classification is the result of scoring evidence for a script.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and chooses the dominant dialect. Callers apply
// their own confidence threshold.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	total := 0
	for _, h := range e.hints {
		if h.Score <= 0 || h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	best, runner := Unknown, Unknown
	bestScore, runnerScore := 0, 0
	for k := Jass; k < kindCount; k++ {
		score := scores[k]
		if score > bestScore {
			runner, runnerScore = best, bestScore
			best, bestScore = k, score
			continue
		}
		if score > runnerScore {
			runner, runnerScore = k, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}
	return Classification{
		Kind:            best,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   runnerScore,
		ObservedSignals: len(e.hints),
	}
}

// maxDetectLines bounds how much of a script Detect reads.
const maxDetectLines = 2000

// Detect classifies script text. Ties and empty input yield Unknown.
func Detect(text string) Classification {
	ev := NewEvidence()
	var off uint32
	for i, line := range strings.SplitAfter(text, "\n") {
		if i >= maxDetectLines {
			break
		}
		Observe(ev, 0, off, strings.TrimSuffix(line, "\n"))
		off += uint32(len(line)) // #nosec G115
	}
	c := Classifier{}.Classify(ev)
	if c.Score == c.RunnerUpScore {
		c.Kind = Unknown
	}
	return c
}

// Resolve picks the dialect for a script: an explicit kind wins, then the
// file extension, then content evidence.
func Resolve(explicit Kind, path, text string) Kind {
	if explicit != Unknown {
		return explicit
	}
	if k := FromFileName(path); k != Unknown {
		return k
	}
	return Detect(text).Kind
}

