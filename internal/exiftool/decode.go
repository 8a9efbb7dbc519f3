package exiftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bethropolis/richexif/internal/metadata"
)

// decodeRecords parses exiftool's -j output: a JSON array with one object per
// file. Object key order is kept, which a plain map would lose.
// Empty input means exiftool printed nothing, i.e. zero records.
func decodeRecords(data []byte) ([]metadata.Metadata, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var records []metadata.Metadata
	for dec.More() {
		obj, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, metadata.Metadata(obj))
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeObject(dec *json.Decoder) (metadata.Object, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	return decodeMembers(dec)
}

// decodeMembers reads key/value pairs up to and including the closing brace.
func decodeMembers(dec *json.Decoder) (metadata.Object, error) {
	obj := metadata.Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		obj = append(obj, metadata.Entry{Key: key, Value: value})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeMembers(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected %v", delim)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of output, want %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
