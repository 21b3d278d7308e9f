package domain

import "strings"

// QuestionType is a coarse classification of a question, used only to
// steer answer phrasing. Misclassification affects guidance, never
// correctness gating.
type QuestionType string

// Available question types.
const (
	QuestionDefinition  QuestionType = "definition"
	QuestionHowTo       QuestionType = "how_to"
	QuestionComparison  QuestionType = "comparison"
	QuestionExample     QuestionType = "example"
	QuestionList        QuestionType = "list"
	QuestionExplanation QuestionType = "explanation"
	QuestionOther       QuestionType = "other"
)

// String returns the string representation.
func (t QuestionType) String() string {
	return string(t)
}

// Cue phrases per type, checked in priority order. All matching is
// case-insensitive substring containment.
var (
	definitionCues  = []string{"what is", "what are", "define", "meaning of", "definition of"}
	howToCues       = []string{"how to", "how do", "how does", "how can", "steps to", "process of", "way to"}
	comparisonCues  = []string{"difference between", "compare", "vs", "versus", "differ from", "contrast"}
	exampleCues     = []string{"example", "give me", "show me", "demonstrate", "instance of"}
	listCues        = []string{"list", "types of", "kinds of", "categories", "what are the"}
	explanationCues = []string{"explain", "why", "describe", "tell me about", "elaborate"}
)

// ClassifyQuestion assigns a coarse type by keyword matching in fixed
// priority order: definition, how-to, comparison, example, list,
// explanation. Anything else is QuestionOther.
func ClassifyQuestion(question string) QuestionType {
	q := strings.ToLower(strings.TrimSpace(question))

	switch {
	case containsAny(q, definitionCues):
		return QuestionDefinition
	case containsAny(q, howToCues):
		return QuestionHowTo
	case containsAny(q, comparisonCues):
		return QuestionComparison
	case containsAny(q, exampleCues):
		return QuestionExample
	case containsAny(q, listCues):
		return QuestionList
	case containsAny(q, explanationCues):
		return QuestionExplanation
	default:
		return QuestionOther
	}
}

// guidanceByType maps each question type to a fixed guidance string
// passed opaquely to the generation provider.
var guidanceByType = map[QuestionType]string{
	QuestionDefinition:  "Provide a clear, concise definition followed by an explanation. Use simple language and examples from the context if available.",
	QuestionHowTo:       "Provide step-by-step instructions or explain the process clearly. Break down complex procedures into numbered steps. Include any prerequisites or important notes.",
	QuestionComparison:  "Highlight key similarities and differences in a structured way. Use a comparison format (e.g., \"X does... while Y does...\"). Be specific and reference the context.",
	QuestionExample:     "Provide concrete, specific examples from the context. If multiple examples exist, choose the most relevant or illustrative one. Explain why the example demonstrates the concept.",
	QuestionList:        "Provide a clear, organized list. Use bullet points or numbering. Include brief explanations for each item if helpful.",
	QuestionExplanation: "Explain the concept thoroughly with reasoning. Break down complex ideas into digestible parts. Use analogies or examples from the context when helpful.",
	QuestionOther:       "Answer the question comprehensively based on the context. Be clear, helpful, and educational in your response.",
}

// Guidance returns the answer-structure guidance for the type.
func (t QuestionType) Guidance() string {
	if g, ok := guidanceByType[t]; ok {
		return g
	}
	return guidanceByType[QuestionOther]
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
