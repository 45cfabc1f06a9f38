package matching

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

var (
	yearsType    = reflect.TypeOf(Years(""))
	recordIDType = reflect.TypeOf(RecordID(""))
)

// DecodeCandidate builds a CandidateProfile from a loosely typed record.
// Unknown keys are ignored and malformed values are treated as absent.
func DecodeCandidate(record map[string]any) (CandidateProfile, error) {
	var candidate CandidateProfile
	if err := decodeRecord(record, &candidate); err != nil {
		return CandidateProfile{}, fmt.Errorf("decode candidate: %w", err)
	}
	return candidate, nil
}

// DecodeJob builds a JobPosting from a loosely typed record.
// Unknown keys are ignored and malformed values are treated as absent.
func DecodeJob(record map[string]any) (JobPosting, error) {
	var job JobPosting
	if err := decodeRecord(record, &job); err != nil {
		return JobPosting{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

func decodeRecord(record map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: coerceHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(record)
}

// coerceHook maps every value headed for a string field to a string. Text fields only accept
// strings; Years and RecordID fields also accept numbers.
func coerceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if to == yearsType || to == recordIDType {
		return coerceScalar(data), nil
	}
	return coerceText(data), nil
}

func coerceText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func coerceScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
