// Package protocol defines the answer/confidence wire format shared by
// every generation backend: the prompts that request it and the parser
// that reads it back.
//
// The model is asked to reply in exactly three labelled fields:
//
//	ANSWER: <text>
//	CONFIDENCE: <0-100>
//	REASONING: <text>
//
// Keeping both sides in one package means a backend can never request
// one shape and parse another.
package protocol

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// NeutralConfidence is assigned when a response carries no parseable
// confidence. Neutral rather than zero: the text may still be useful,
// but nothing supports trusting it.
const NeutralConfidence = 50

// Field labels, matched case-insensitively at line starts.
const (
	answerLabel     = "ANSWER:"
	confidenceLabel = "CONFIDENCE:"
	reasoningLabel  = "REASONING:"
)

// Parse reads a model response in the three-field format. The answer
// may span multiple lines up to the next label. Confidence is clamped
// to [0, 100]. A response without any labels is taken verbatim as the
// answer with neutral confidence.
func Parse(raw string) domain.Answer {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Answer{Confidence: NeutralConfidence}
	}

	var answerLines, reasoningLines []string
	confidence := -1
	section := ""

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)

		switch {
		case strings.HasPrefix(upper, answerLabel):
			section = "answer"
			if rest := strings.TrimSpace(trimmed[len(answerLabel):]); rest != "" {
				answerLines = append(answerLines, rest)
			}
		case strings.HasPrefix(upper, confidenceLabel):
			section = "confidence"
			confidence = parseConfidence(trimmed[len(confidenceLabel):])
		case strings.HasPrefix(upper, reasoningLabel):
			section = "reasoning"
			if rest := strings.TrimSpace(trimmed[len(reasoningLabel):]); rest != "" {
				reasoningLines = append(reasoningLines, rest)
			}
		default:
			switch section {
			case "answer":
				answerLines = append(answerLines, line)
			case "reasoning":
				if trimmed != "" {
					reasoningLines = append(reasoningLines, trimmed)
				}
			}
		}
	}

	// No labels at all: the model ignored the protocol.
	if len(answerLines) == 0 && confidence < 0 && len(reasoningLines) == 0 {
		return domain.Answer{Text: raw, Confidence: NeutralConfidence}
	}

	answer := strings.TrimSpace(strings.Join(answerLines, "\n"))
	if answer == "" {
		answer = raw
	}
	if confidence < 0 {
		confidence = NeutralConfidence
	}

	return domain.Answer{
		Text:       answer,
		Confidence: confidence,
		Reasoning:  strings.Join(reasoningLines, " "),
	}
}

// parseConfidence extracts a clamped [0, 100] integer from the text
// after the CONFIDENCE label. Returns -1 when nothing numeric is there.
func parseConfidence(s string) int {
	s = strings.TrimSpace(s)

	// Tolerate trailing decoration like "85%" or "85/100".
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
