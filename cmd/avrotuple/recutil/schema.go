package recutil

import (
	"os"

	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// ReadSchema parses the schema stored in the file at path.
func ReadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, errors.New("missing schema file")
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read schema")
	}

	s, err := schema.Parse(string(text))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schema %s", path)
	}

	return s, nil
}

// Fingerprint returns the canonical form of s and its fingerprint.
func Fingerprint(s *schema.Schema) (string, uint64, error) {
	c, err := s.Canonical()
	if err != nil {
		return "", 0, err
	}
	fp, err := s.Fingerprint()
	if err != nil {
		return "", 0, err
	}

	return c, fp, nil
}
