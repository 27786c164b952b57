package manifest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and decodes an integration manifest from a file.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewFileOpenError(err)
	}

	var doc Document
	decoder := yaml.NewDecoder(file)
	decodeErr := decoder.Decode(&doc)
	closeErr := file.Close()

	if decodeErr != nil {
		return nil, NewDecodeError(decodeErr)
	}
	if closeErr != nil {
		return nil, NewFileOpenError(closeErr)
	}
	return &doc, nil
}
