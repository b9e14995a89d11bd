// Package corpus loads the static document corpus from disk.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/helpdex/internal/domain"
	domcorpus "github.com/kailas-cloud/helpdex/internal/domain/corpus"
)

// record is the on-disk shape: [{"id": "...", "type": "article", "text": "..."}].
type record struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// LoadFile reads a corpus file. .yaml/.yml files are parsed as YAML, anything else as JSON.
// All failures wrap domain.ErrConfiguration.
func LoadFile(path string) (*domcorpus.Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w: %w", path, domain.ErrConfiguration, err)
	}

	var records []record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		records, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w: %w", path, domain.ErrConfiguration, err)
	}

	return build(records)
}

// Parse decodes a JSON corpus from memory.
func Parse(data []byte) (*domcorpus.Store, error) {
	records, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse corpus: %w: %w", domain.ErrConfiguration, err)
	}
	return build(records)
}

func decodeJSON(data []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return records, nil
}

func build(records []record) (*domcorpus.Store, error) {
	docs := make([]domain.Document, len(records))
	for i, r := range records {
		docs[i] = domain.Document{ID: r.ID, Type: domain.DocType(r.Type), Text: r.Text}
	}
	store, err := domcorpus.New(docs)
	if err != nil {
		return nil, fmt.Errorf("validate corpus: %w", err)
	}
	return store, nil
}
