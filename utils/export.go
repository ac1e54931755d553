package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is one column of an exported record.
type Field struct {
	Key   string
	Value interface{}
}

// Record is an export row whose JSON form keeps the field order.
type Record []Field

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteCSV writes records with a header taken from the first record.
// Every non-empty value is quoted; nil values become empty cells.
func WriteCSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, f := range records[0] {
		header[i] = f.Key
	}
	if _, err := io.WriteString(w, strings.Join(header, ",")); err != nil {
		return err
	}
	for _, rec := range records {
		cells := make([]string, len(rec))
		for i, f := range rec {
			cells[i] = csvCell(f.Value)
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}

func csvCell(v interface{}) string {
	s, ok := formatValue(v)
	if !ok {
		return ""
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatValue(v interface{}) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case *time.Time:
		if x == nil {
			return "", false
		}
		return x.Format(time.RFC3339), true
	case time.Time:
		return x.Format(time.RFC3339), true
	case *int:
		if x == nil {
			return "", false
		}
		return fmt.Sprint(*x), true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case *primitive.ObjectID:
		if x == nil {
			return "", false
		}
		return x.Hex(), true
	case primitive.ObjectID:
		return x.Hex(), true
	default:
		return fmt.Sprint(x), true
	}
}
