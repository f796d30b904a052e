package requirements

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// storeFile is the on-disk schema shared by the YAML and JSON encodings.
type storeFile struct {
	PolicyRequirements []Requirement `json:"policy_requirements" yaml:"policy_requirements"`
	Metadata           fileMetadata  `json:"metadata" yaml:"metadata"`
}

type fileMetadata struct {
	LastUpdated       string       `json:"last_updated" yaml:"last_updated"`
	TotalRequirements int          `json:"total_requirements" yaml:"total_requirements"`
	RequirementTypes  map[Type]int `json:"requirement_types" yaml:"requirement_types"`
}

// SaveFile serializes the full requirement set plus metadata to path.
// The encoding follows the file extension: .json produces JSON, anything
// else YAML. I/O errors surface to the caller; no retry is attempted.
func (s *Store) SaveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := storeFile{
		PolicyRequirements: s.all(),
		Metadata: fileMetadata{
			LastUpdated:       s.lastUpdated.Format(time.RFC3339),
			TotalRequirements: len(s.requirements),
			RequirementTypes:  make(map[Type]int, len(s.byType)),
		},
	}
	for t, ids := range s.byType {
		doc.Metadata.RequirementTypes[t] = len(ids)
	}

	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encode requirements: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write requirements file: %w", err)
	}

	s.logger.Info("requirements saved", "path", path, "count", len(s.requirements))
	return nil
}

// LoadFile replaces the in-memory state entirely with the contents of
// path. The store is cleared before loading; requirements that fail
// validation are skipped with a warning rather than aborting the load.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read requirements file: %w", err)
	}

	var doc storeFile
	if isJSON(path) {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return fmt.Errorf("parse requirements file %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()

	for _, r := range doc.PolicyRequirements {
		if err := s.add(r); err != nil {
			s.logger.Warn("skipping requirement on load", "id", r.ID, "error", err)
		}
	}

	if ts, err := time.Parse(time.RFC3339, doc.Metadata.LastUpdated); err == nil {
		s.lastUpdated = ts
	}

	s.logger.Info("requirements loaded", "path", path, "count", len(s.requirements))
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
