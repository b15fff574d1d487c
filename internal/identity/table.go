package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Entry is one device table record: the credentials for a single device.
type Entry struct {
	ID  string
	Key string
}

// UnmarshalJSON decodes the wire format, a fixed-order 2-element array:
// element 0 is the device ID, element 1 is the device key.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("entry must be a [id, key] string array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("entry must have exactly 2 elements, got %d", len(pair))
	}
	e.ID = pair[0]
	e.Key = pair[1]
	return nil
}

// MarshalJSON encodes the wire format.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.ID, e.Key})
}

// Table maps canonical host names to device credentials.
// Loaded once per invocation; never mutated afterwards.
type Table map[string]Entry

// LoadTable reads a device table from a JSON file.
//
// Parameters:
//   - path: Path to the JSON device table
//
// Returns:
//   - Table: The parsed host → credentials mapping
//   - error: ErrTableNotFound (also wrapping fs.ErrNotExist) if the file
//     is missing, ErrTableSyntax if the content is malformed
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrTableNotFound, path, err)
		}
		return nil, fmt.Errorf("reading device table %s: %w", path, err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: in %s: %w", ErrTableSyntax, path, err)
	}

	return table, nil
}
