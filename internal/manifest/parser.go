package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidBlock is returned when an extra block does not match its schema.
var ErrInvalidBlock = errors.New("invalid extra block")

// File is the part of a package manifest nodebridge reads.
type File struct {
	Extra map[string]json.RawMessage `json:"extra"`
}

// ReadFile reads and decodes the manifest at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &f, nil
}

// Block returns the raw extra.<key> value and whether it is present.
func (f *File) Block(key string) (json.RawMessage, bool) {
	if f == nil || f.Extra == nil {
		return nil, false
	}
	raw, ok := f.Extra[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

// ParseRequirements validates and decodes a requirement block. Object keys
// keep their document order.
func ParseRequirements(raw []byte) (*Requirements, error) {
	result, err := ValidateRequirements(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBlock, result.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding requirement block: %w", err)
	}

	reqs := &Requirements{}
	switch t := tok.(type) {
	case string:
		reqs.Set(positional(t))
	case json.Delim:
		switch t {
		case '{':
			if err := readPairs(dec, func(name, version string) {
				reqs.Set(Requirement{Name: name, Version: version})
			}); err != nil {
				return nil, err
			}
		case '[':
			for dec.More() {
				var item json.RawMessage
				if err := dec.Decode(&item); err != nil {
					return nil, fmt.Errorf("decoding requirement entry: %w", err)
				}
				if err := parseArrayItem(item, reqs); err != nil {
					return nil, err
				}
			}
		}
	}
	return reqs, nil
}

// ParseConfirmations validates and decodes a confirmation block.
func ParseConfirmations(raw []byte) (*Confirmations, error) {
	result, err := ValidateConfirmations(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBlock, result.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding confirmation block: %w", err)
	}

	confirm := &Confirmations{}
	err = readPairs(dec, func(pkg, msg string) {
		confirm.Set(Confirmation{Package: pkg, Message: msg})
	})
	if err != nil {
		return nil, err
	}
	return confirm, nil
}

// ParseValue marshals a decoded value (as handed over by a host in its
// extra settings) and parses it as a requirement block.
func ParseValue(v any) (*Requirements, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding requirement block: %w", err)
	}
	return ParseRequirements(raw)
}

// ParseConfirmationValue is ParseValue for confirmation blocks.
func ParseConfirmationValue(v any) (*Confirmations, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding confirmation block: %w", err)
	}
	return ParseConfirmations(raw)
}

// ReadRequirements reads extra.<key> from the manifest at path. A manifest
// without the block yields an empty set and no error.
func ReadRequirements(path, key string) (*Requirements, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, ok := f.Block(key)
	if !ok {
		return &Requirements{}, nil
	}
	reqs, err := ParseRequirements(raw)
	if err != nil {
		return nil, fmt.Errorf("%s extra.%s: %w", path, key, err)
	}
	return reqs, nil
}

// ReadConfirmations reads extra.<key> from the manifest at path as a
// confirmation block.
func ReadConfirmations(path, key string) (*Confirmations, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, ok := f.Block(key)
	if !ok {
		return &Confirmations{}, nil
	}
	confirm, err := ParseConfirmations(raw)
	if err != nil {
		return nil, fmt.Errorf("%s extra.%s: %w", path, key, err)
	}
	return confirm, nil
}

func parseArrayItem(item json.RawMessage, reqs *Requirements) error {
	dec := json.NewDecoder(bytes.NewReader(item))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding requirement entry: %w", err)
	}
	if name, ok := tok.(string); ok {
		reqs.Set(positional(name))
		return nil
	}
	return readPairs(dec, func(name, version string) {
		reqs.Set(Requirement{Name: name, Version: version})
	})
}

// readPairs consumes string-valued members of an object whose opening
// delimiter has already been read.
func readPairs(dec *json.Decoder, fn func(key, value string)) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding value of %q: %w", key, err)
		}
		fn(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding end of object: %w", err)
	}
	return nil
}

func positional(name string) Requirement {
	return Requirement{Name: name, Version: Wildcard, Positional: true}
}

// manifestPath joins dir with the manifest file name.
func manifestPath(dir, fileName string) string {
	return filepath.Join(dir, fileName)
}
