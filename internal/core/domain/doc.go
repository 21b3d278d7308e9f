// Package domain contains the core business types for Recall: chunks,
// answers, learned answers, question classification, and settings.
// It has no dependencies on adapters or infrastructure.
package domain
