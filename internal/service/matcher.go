package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/byhelaman/minerva-api/internal/models"
	"github.com/byhelaman/minerva-api/pkg/config"
)

// Default scoring constants. The similarity metric blends token-set overlap
// with character-bigram overlap so that both word reordering ("101 English")
// and small spelling drift ("Englsh 101") stay above threshold.
const (
	defaultMatchThreshold  = 0.45
	defaultTieMargin       = 0.10
	defaultInstructorBonus = 0.15
)

// Matcher scores schedule entries against the meeting candidate pool. It is
// pure and safe for concurrent use.
type Matcher struct {
	threshold       float64
	tieMargin       float64
	instructorBonus float64
}

// NewMatcher builds a matcher from configuration, falling back to defaults
// for unset values.
func NewMatcher(cfg config.MatchingConfig) *Matcher {
	m := &Matcher{
		threshold:       cfg.Threshold,
		tieMargin:       cfg.TieMargin,
		instructorBonus: cfg.InstructorBonus,
	}
	if m.threshold <= 0 || m.threshold >= 1 {
		m.threshold = defaultMatchThreshold
	}
	if m.tieMargin <= 0 || m.tieMargin >= 1 {
		m.tieMargin = defaultTieMargin
	}
	if m.instructorBonus < 0 || m.instructorBonus >= 1 {
		m.instructorBonus = defaultInstructorBonus
	}
	return m
}

// Match scores every candidate's topic against the entry's program text and
// classifies the outcome. It never fails for well-formed input: an empty
// pool or an entry without program text degrades to a NoMatch outcome.
func (m *Matcher) Match(entry models.ScheduleEntry, candidates []models.MeetingCandidate) models.MatchResult {
	program := normalizeText(entry.Program)
	if program == "" {
		return models.MatchResult{
			Outcome: models.OutcomeNoMatch,
			Reason:  "entry has no program text",
		}
	}
	if len(candidates) == 0 {
		return models.MatchResult{
			Outcome: models.OutcomeNoMatch,
			Reason:  "candidate pool is empty",
		}
	}

	instructorTokens := tokenSet(normalizeText(entry.Instructor))

	scored := make([]models.ScoredCandidate, 0, len(candidates))
	var closest *models.ScoredCandidate
	for _, candidate := range candidates {
		score := m.score(program, instructorTokens, candidate)
		sc := models.ScoredCandidate{Candidate: candidate, Score: score}
		if closest == nil || score > closest.Score {
			copied := sc
			closest = &copied
		}
		if score >= m.threshold {
			scored = append(scored, sc)
		}
	}

	if len(scored) == 0 {
		reason := "no candidate scored above threshold"
		if closest != nil {
			reason = fmt.Sprintf("best candidate scored below threshold: %q, score=%.2f", closest.Candidate.Topic, closest.Score)
		}
		return models.MatchResult{Outcome: models.OutcomeNoMatch, Reason: reason}
	}

	sortScored(scored)

	if len(scored) == 1 || scored[0].Score-scored[1].Score > m.tieMargin {
		best := scored[0]
		return models.MatchResult{Outcome: models.OutcomeConfident, Best: &best}
	}

	// Keep only candidates inside the tie margin of the top score; trailing
	// survivors below the band are noise for the resolution UI.
	ranked := scored[:0]
	for _, sc := range scored {
		if scored[0].Score-sc.Score <= m.tieMargin {
			ranked = append(ranked, sc)
		}
	}
	return models.MatchResult{
		Outcome: models.OutcomeAmbiguous,
		Ranked:  ranked,
		Reason:  fmt.Sprintf("%d candidates within tie margin", len(ranked)),
	}
}

func (m *Matcher) score(program string, instructorTokens map[string]struct{}, candidate models.MeetingCandidate) float64 {
	topic := normalizeText(candidate.Topic)
	if topic == "" {
		return 0
	}

	programTokens := tokenSet(program)
	topicTokens := tokenSet(topic)

	score := 0.6*jaccard(programTokens, topicTokens) + 0.4*bigramDice(program, topic)

	if len(instructorTokens) > 0 {
		for token := range instructorTokens {
			if _, ok := topicTokens[token]; ok {
				score += m.instructorBonus
				break
			}
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// sortScored orders by score descending, breaking ties by meeting id
// ascending so identical inputs always rank identically.
func sortScored(scored []models.ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.MeetingID < scored[j].Candidate.MeetingID
	})
}

// normalizeText lowercases, strips punctuation and collapses whitespace.
func normalizeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		set[token] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// bigramDice computes the Sørensen-Dice coefficient over character bigrams
// of the space-stripped strings.
func bigramDice(a, b string) float64 {
	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0
	}
	intersection := 0
	for gram, count := range aBigrams {
		if other, ok := bBigrams[gram]; ok {
			if other < count {
				count = other
			}
			intersection += count
		}
	}
	totalA := 0
	for _, count := range aBigrams {
		totalA += count
	}
	totalB := 0
	for _, count := range bBigrams {
		totalB += count
	}
	return 2 * float64(intersection) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	compact := []rune(strings.ReplaceAll(s, " ", ""))
	grams := make(map[string]int)
	for i := 0; i+1 < len(compact); i++ {
		grams[string(compact[i:i+2])]++
	}
	return grams
}
