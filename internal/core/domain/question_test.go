package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     QuestionType
	}{
		{"what is", "What is photosynthesis?", QuestionDefinition},
		{"define", "Define entropy", QuestionDefinition},
		{"meaning of", "the meaning of recursion", QuestionDefinition},
		{"how to", "How to configure the index?", QuestionHowTo},
		{"steps to", "steps to deploy the service", QuestionHowTo},
		{"difference between", "difference between TCP and UDP", QuestionComparison},
		{"versus", "Postgres versus SQLite", QuestionComparison},
		{"example", "Give an example of a monad", QuestionExample},
		{"show me", "show me a usage pattern", QuestionExample},
		{"types of", "types of indexes", QuestionList},
		{"explain", "Explain garbage collection", QuestionExplanation},
		{"why", "Why does the sky appear blue at noon", QuestionExplanation},
		{"other", "the quick brown fox", QuestionOther},
		{"empty", "", QuestionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyQuestion(tt.question))
		})
	}
}

// Priority order matters: a question matching several cue sets takes the
// earliest type.
func TestClassifyQuestionPriority(t *testing.T) {
	// "what is" (definition) beats "example".
	assert.Equal(t, QuestionDefinition, ClassifyQuestion("What is an example of osmosis?"))

	// "how to" beats "list".
	assert.Equal(t, QuestionHowTo, ClassifyQuestion("How to list open files?"))

	// "compare" beats "explain".
	assert.Equal(t, QuestionComparison, ClassifyQuestion("Compare and explain both designs"))
}

func TestGuidance(t *testing.T) {
	for _, typ := range []QuestionType{
		QuestionDefinition, QuestionHowTo, QuestionComparison,
		QuestionExample, QuestionList, QuestionExplanation, QuestionOther,
	} {
		assert.NotEmpty(t, typ.Guidance(), "guidance for %s", typ)
	}

	// Unrecognised types fall back to the generic guidance.
	assert.Equal(t, QuestionOther.Guidance(), QuestionType("bogus").Guidance())
}

func TestNormalizeQuestion(t *testing.T) {
	assert.Equal(t, "what is photosynthesis", NormalizeQuestion("  What is Photosynthesis "))
	assert.Equal(t, "", NormalizeQuestion("   "))
}
