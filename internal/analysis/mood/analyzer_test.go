package mood

import "testing"

func TestAnalyzeConfusedQuestion(t *testing.T) {
	decision := Analyze("What does m mean in y = mx + c?")
	if decision.Mood != Confused {
		t.Fatalf("expected confused mood, got %s", decision.Mood)
	}
	if decision.Score <= 0 {
		t.Fatalf("expected positive score, got %d", decision.Score)
	}
}

func TestAnalyzeFrustratedStudent(t *testing.T) {
	decision := Analyze("Ugh, this is too hard, I give up!!")
	if decision.Mood != Frustrated {
		t.Fatalf("expected frustrated mood, got %s", decision.Mood)
	}
}

func TestAnalyzeConfidentStudent(t *testing.T) {
	decision := Analyze("Oh I see, got it now. Thanks")
	if decision.Mood != Confident {
		t.Fatalf("expected confident mood, got %s", decision.Mood)
	}
}

func TestAnalyzeNeutralAndEmpty(t *testing.T) {
	if decision := Analyze("   "); decision.Mood != Neutral {
		t.Fatalf("expected neutral for blank input, got %s", decision.Mood)
	}
	if decision := Analyze("Linear regression homework"); decision.Mood != Neutral || decision.Score != 0 {
		t.Fatalf("expected neutral zero score, got %s/%d", decision.Mood, decision.Score)
	}
}

func TestAnalyzeMatchesWholeWordsOnly(t *testing.T) {
	cases := []string{
		"I thought about it",
		"whatever works",
		"I went through the proof",
		"Is this against the rules",
		"The function is closest to zero",
	}

	for _, utterance := range cases {
		t.Run(utterance, func(t *testing.T) {
			if decision := Analyze(utterance); decision.Mood != Neutral || decision.Score != 0 {
				t.Fatalf("expected neutral zero score for %q, got %s/%d", utterance, decision.Mood, decision.Score)
			}
		})
	}
}

func TestAnalyzeMatchesPhrasesAcrossPunctuation(t *testing.T) {
	if decision := Analyze("I’m lost. Don’t understand, sorry"); decision.Mood != Confused {
		t.Fatalf("expected confused mood, got %s", decision.Mood)
	}
	if decision := Analyze("Wrong again, ugh"); decision.Mood != Frustrated {
		t.Fatalf("expected frustrated mood, got %s", decision.Mood)
	}
}
