// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/askit/core"
)

// Snapshot writes the full chunk list as JSON to the snapshot path,
// overwriting any previous snapshot wholesale. The caller decides whether a
// failure is logged and ignored or escalated.
func (s *Store) Snapshot() error {
	s.mu.RLock()
	chunks := s.chunks
	s.mu.RUnlock()

	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index snapshot: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath, data, 0644); err != nil {
		return fmt.Errorf("writing index snapshot: %w", err)
	}

	s.logger.Debug("index snapshot written", "path", s.snapshotPath, "chunks", len(chunks))
	return nil
}

// loadSnapshot reads the snapshot from disk into the store. A missing file is
// not an error; the store simply starts empty.
func (s *Store) loadSnapshot() error {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading index snapshot: %w", err)
	}

	var chunks []*core.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return fmt.Errorf("parsing index snapshot: %w", err)
	}

	s.chunks = chunks
	s.trained = len(chunks) > 0

	s.logger.Info("loaded index snapshot", "path", s.snapshotPath, "chunks", len(chunks))
	return nil
}

// removeSnapshot deletes the persisted snapshot if present.
// Caller must hold the write lock.
func (s *Store) removeSnapshot() error {
	if err := os.Remove(s.snapshotPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing index snapshot: %w", err)
	}
	return nil
}
