package zone

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var ErrRecordNotFound = errors.New("record not found")

type RecordType string

func (t RecordType) String() string {
	return string(t)
}

// Fields holds the attributes of a record. Values are string, []string or
// nil; a nil value removes the attribute when the record is saved.
type Fields map[string]any

type Record struct {
	ExternalID string
	Type       RecordType
	Fields     Fields
}

func NewRecord(recordType RecordType, externalID string) Record {
	return Record{
		ExternalID: externalID,
		Type:       recordType,
		Fields:     make(Fields),
	}
}

func (r *Record) Set(field string, value any) {
	if r.Fields == nil {
		r.Fields = make(Fields)
	}
	r.Fields[field] = value
}

// Clear marks the field for removal on the next save.
func (r *Record) Clear(field string) {
	r.Set(field, nil)
}

func (r Record) String(field string) (string, bool) {
	v, ok := r.Fields[field].(string)
	return v, ok
}

func (r Record) Strings(field string) ([]string, bool) {
	v, ok := r.Fields[field].([]string)
	return v, ok
}

// Merge applies the fields of update on top of r. Nil values delete.
func (r Record) Merge(update Record) Record {
	merged := NewRecord(update.Type, update.ExternalID)
	if merged.Type == "" {
		merged.Type = r.Type
	}
	for k, v := range r.Fields {
		merged.Fields[k] = v
	}
	for k, v := range update.Fields {
		if v == nil {
			delete(merged.Fields, k)
			continue
		}
		merged.Fields[k] = v
	}
	return merged
}

// EncodeValue serializes a single field value for stores that keep each
// attribute as an opaque string.
func EncodeValue(v any) (string, error) {
	switch v.(type) {
	case string, []string:
	default:
		return "", fmt.Errorf("unsupported field value type %T", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "error encoding field value")
	}
	return string(b), nil
}

func DecodeValue(s string) (any, error) {
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, errors.Wrap(err, "error decoding field value")
	}
	return normalizeValue(raw)
}

// NormalizeFields converts generically decoded JSON values back into the
// value types a Record carries.
func NormalizeFields(raw map[string]any) (Fields, error) {
	fields := make(Fields, len(raw))
	for k, v := range raw {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "field '%s'", k)
		}
		fields[k] = nv
	}
	return fields, nil
}

func normalizeValue(v any) (any, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case []string:
		return tv, nil
	case []any:
		out := make([]string, 0, len(tv))
		for _, item := range tv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported list item type %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported field value type %T", v)
	}
}
