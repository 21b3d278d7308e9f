package protocol

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// responseFormat instructs the model to reply in the parseable shape.
const responseFormat = `Respond in EXACTLY this format:
ANSWER: <your answer>
CONFIDENCE: <integer 0-100, how well the provided information supports your answer>
REASONING: <one sentence explaining your confidence score>`

// contextSystemPrompt binds the model to the supplied context.
const contextSystemPrompt = `You are a precise assistant that answers questions using ONLY the provided context.
If the context does not contain the answer, say so and report low confidence.
Never invent facts that are not in the context.`

// openSystemPrompt governs the open-knowledge path. The confidence bar
// is deliberately high: only answers at 90+ are absorbed permanently.
const openSystemPrompt = `You are a knowledgeable assistant answering from your general knowledge.
Report CONFIDENCE of 90 or above ONLY for stable, well-established facts that are very unlikely to be wrong or outdated.
For anything uncertain, recent, or opinion-based, report lower confidence.`

// ContextPrompt builds the system and user prompts for context-bound
// generation. The question-type guidance steers phrasing only.
func ContextPrompt(contextText, question string, qtype domain.QuestionType, guidance string) (system, user string) {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	if guidance != "" {
		fmt.Fprintf(&b, "\n\nThis is a %s question. %s", qtype, guidance)
	}
	b.WriteString("\n\n")
	b.WriteString(responseFormat)

	return contextSystemPrompt, b.String()
}

// OpenPrompt builds the system and user prompts for open-knowledge
// generation.
func OpenPrompt(question string) (system, user string) {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(responseFormat)

	return openSystemPrompt, b.String()
}
