package legacy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Timestamp holds a legacy date exactly as stored. Older rows carry native
// timestamps, newer imports carry text; normalization happens during
// transformation so a bad value fails with the record key attached.
type Timestamp struct {
	Time  time.Time
	Text  string
	Valid bool
}

// At wraps a native time.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

// Text wraps a textual date.
func Text(s string) Timestamp {
	return Timestamp{Text: s, Valid: true}
}

func (t Timestamp) IsText() bool {
	return t.Valid && t.Time.IsZero() && t.Text != ""
}

// Scan implements sql.Scanner for the Postgres adapter.
func (t *Timestamp) Scan(src any) error {
	*t = Timestamp{}
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		*t = At(v)
	case string:
		if strings.TrimSpace(v) != "" {
			*t = Text(v)
		}
	case []byte:
		if strings.TrimSpace(string(v)) != "" {
			*t = Text(string(v))
		}
	default:
		return fmt.Errorf("unsupported timestamp source %T", src)
	}
	return nil
}

// UnmarshalBSONValue decodes dates, strings and nulls from Mongo documents.
func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	*t = Timestamp{}
	raw := bson.RawValue{Type: typ, Value: data}

	switch typ {
	case bson.TypeNull, bson.TypeUndefined:
		return nil
	case bson.TypeDateTime:
		*t = At(raw.Time().UTC())
	case bson.TypeTimestamp:
		sec, _ := raw.Timestamp()
		*t = At(time.Unix(int64(sec), 0).UTC())
	case bson.TypeString:
		if s := raw.StringValue(); strings.TrimSpace(s) != "" {
			*t = Text(s)
		}
	default:
		return fmt.Errorf("unsupported bson type %s for timestamp", typ)
	}
	return nil
}

// RawDocument is a nested legacy document (city, interests, uploaded file)
// kept as JSON bytes until it is decoded by a converter.
type RawDocument []byte

func (d *RawDocument) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case string:
		*d = RawDocument(v)
	case []byte:
		*d = append(RawDocument(nil), v...)
	default:
		return fmt.Errorf("unsupported document source %T", src)
	}
	return nil
}

func (d *RawDocument) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}

	var v any
	switch typ {
	case bson.TypeNull, bson.TypeUndefined:
		*d = nil
		return nil
	case bson.TypeString:
		// documents serialized by the old upload path
		*d = RawDocument(raw.StringValue())
		return nil
	case bson.TypeEmbeddedDocument:
		var m bson.M
		if err := raw.Unmarshal(&m); err != nil {
			return err
		}
		v = m
	case bson.TypeArray:
		var a bson.A
		if err := raw.Unmarshal(&a); err != nil {
			return err
		}
		v = a
	default:
		return fmt.Errorf("unsupported bson type %s for document", typ)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	*d = b
	return nil
}

func (d RawDocument) IsEmpty() bool {
	s := strings.TrimSpace(string(d))
	return s == "" || s == "null"
}
