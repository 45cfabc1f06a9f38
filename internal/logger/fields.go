package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldComparator is the structured log field key for the similarity comparator kind.
	FieldComparator = "comparator"
	// FieldProvider is the structured log field key for the embedding provider name.
	FieldProvider = "embedding_provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "embedding_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ComparatorFields describes the comparator in use. Provider and model are empty for the
// lexical comparator and are dropped.
func ComparatorFields(kind, provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldComparator, Value: kind},
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithComparatorFields attaches the comparator fields to the provided logger.
func WithComparatorFields(logger *zap.Logger, kind, provider, model string) *zap.Logger {
	return WithFields(logger, ComparatorFields(kind, provider, model)...)
}
