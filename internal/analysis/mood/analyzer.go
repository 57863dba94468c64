package mood

import (
	"strings"
	"unicode"
)

// Label classifies how a student sounds in a single message.
type Label string

const (
	Neutral    Label = "neutral"
	Confused   Label = "confused"
	Frustrated Label = "frustrated"
	Confident  Label = "confident"
)

// Decision carries the detected label and its keyword score.
type Decision struct {
	Mood  Label
	Score int
}

var keywordBuckets = map[Label][]string{
	Confused: {
		"confused", "don't understand", "dont understand", "don't get", "dont get", "what does",
		"what is", "why does", "how does", "lost", "unclear", "not sure", "makes no sense", "explain",
		"stuck", "huh", "meaning of", "difference between",
	},
	Frustrated: {
		"frustrated", "annoying", "hate", "give up", "impossible", "too hard", "so hard", "ugh",
		"can't do", "cant do", "nothing works", "still wrong", "again", "tired of", "useless",
	},
	Confident: {
		"got it", "makes sense", "i see", "understood", "thanks", "thank you", "easy", "solved",
		"that helps", "clear now", "awesome", "great", "nailed",
	},
}

// keywordPhrases holds every keyword split into words, matched against whole
// word runs so "ugh" never fires inside "thought".
var keywordPhrases = func() map[Label][][]string {
	phrases := make(map[Label][][]string, len(keywordBuckets))
	for label, keywords := range keywordBuckets {
		for _, keyword := range keywords {
			phrases[label] = append(phrases[label], tokenize(keyword))
		}
	}
	return phrases
}()

// Analyze infers the student's mood from one utterance.
func Analyze(utterance string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(utterance))
	if normalized == "" {
		return Decision{Mood: Neutral}
	}

	words := tokenize(normalized)
	scores := make(map[Label]int)
	for label, phrases := range keywordPhrases {
		for _, phrase := range phrases {
			if containsRun(words, phrase) {
				scores[label] += 3
			}
		}
	}

	if questions := strings.Count(normalized, "?"); questions > 0 {
		scores[Confused] += questions
	}
	if exclamations := strings.Count(normalized, "!"); exclamations > 1 && scores[Frustrated] > 0 {
		scores[Frustrated] += exclamations
	}

	best := Neutral
	bestScore := 0
	// fixed order keeps ties deterministic
	for _, label := range []Label{Frustrated, Confused, Confident} {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}

	return Decision{Mood: best, Score: bestScore}
}

// tokenize splits text into lowercase words. Apostrophes stay inside words so
// "don't" is one token; typographic apostrophes are folded to ASCII.
func tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "\u2019", "'"))
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	words := fields[:0]
	for _, field := range fields {
		if field = strings.Trim(field, "'"); field != "" {
			words = append(words, field)
		}
	}
	return words
}

// containsRun reports whether phrase occurs in words as consecutive tokens.
func containsRun(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}

outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, word := range phrase {
			if words[i+j] != word {
				continue outer
			}
		}
		return true
	}
	return false
}
