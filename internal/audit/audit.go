// Package audit keeps a trail of mutating operations and login
// attempts as JSON files, one event per file, named by UUID. Events are
// written synchronously; the application is single-threaded and an
// operation is not complete until its trail entry exists.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrlokans/librarium/internal/entities"
)

type Auditor struct {
	Dir string
}

func NewAuditor(dir string) *Auditor {
	return &Auditor{Dir: dir}
}

// Save writes the event to a fresh UUID-named JSON file and returns the
// filename.
func (a *Auditor) Save(event entities.AuditEvent) (string, error) {
	if err := a.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.Dir, filename)

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return filename, nil
}

// List reads every event in the audit directory, oldest first.
func (a *Auditor) List() ([]entities.AuditEvent, error) {
	files, err := os.ReadDir(a.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit directory: %w", err)
	}

	var events []entities.AuditEvent
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.Dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read audit file %s: %w", f.Name(), err)
		}
		var event entities.AuditEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse audit file %s: %w", f.Name(), err)
		}
		events = append(events, event)
	}

	sortEventsByTime(events)
	return events, nil
}

func (a *Auditor) ensureDir() error {
	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
