// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
)

// CreateConnection persists a directed edge between two ideas. Both
// endpoints must exist (ErrNotFound otherwise) and must belong to the same
// project (ErrInvalidReference otherwise). Duplicate edges and self-loops
// are legal.
func (s *GraphStore) CreateConnection(sourceID, targetID, label string) (*datatypes.Connection, error) {
	conn := &datatypes.Connection{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Label:     label,
		CreatedAt: s.now().UTC(),
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		var source, target datatypes.Idea
		if err := getJSON(txn, ideaKey(sourceID), &source); err != nil {
			return fmt.Errorf("source idea %s: %w", sourceID, err)
		}
		if err := getJSON(txn, ideaKey(targetID), &target); err != nil {
			return fmt.Errorf("target idea %s: %w", targetID, err)
		}
		if source.ProjectID != target.ProjectID {
			return fmt.Errorf("ideas %s and %s belong to different projects: %w",
				sourceID, targetID, ErrInvalidReference)
		}

		if err := setJSON(txn, connKey(conn.ID), conn); err != nil {
			return err
		}
		if err := txn.Set(ideaConnKey(sourceID, conn.ID), nil); err != nil {
			return err
		}
		// A self-loop writes the same index key twice, which is harmless.
		return txn.Set(ideaConnKey(targetID, conn.ID), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	return conn, nil
}

// ListConnections returns every connection with at least one endpoint in
// the given project. With same-project endpoints enforced at creation this
// is every edge of the project's subgraph.
func (s *GraphStore) ListConnections(projectID string) ([]*datatypes.Connection, error) {
	var conns []*datatypes.Connection
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := exists(txn, projectKey(projectID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}

		ideaIDs, err := scanIndex(txn, prefixProjIdeas+projectID+":")
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, ideaID := range ideaIDs {
			connIDs, err := scanIndex(txn, prefixIdeaConns+ideaID+":")
			if err != nil {
				return err
			}
			for _, connID := range connIDs {
				if seen[connID] {
					continue
				}
				seen[connID] = true
				var conn datatypes.Connection
				if err := getJSON(txn, connKey(connID), &conn); err != nil {
					return fmt.Errorf("connection %s: %w", connID, err)
				}
				conns = append(conns, &conn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].CreatedAt.After(conns[j].CreatedAt)
	})
	return conns, nil
}

// GetConnection returns the connection with the given ID.
func (s *GraphStore) GetConnection(id string) (*datatypes.Connection, error) {
	var conn datatypes.Connection
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, connKey(id), &conn)
	})
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", id, err)
	}
	return &conn, nil
}

// ConnectionPatch is a partial connection update. Endpoints are immutable;
// relinking is a delete plus a create.
type ConnectionPatch struct {
	Label *string
}

// UpdateConnection applies a partial update inside one transaction.
func (s *GraphStore) UpdateConnection(id string, patch ConnectionPatch) (*datatypes.Connection, error) {
	var conn datatypes.Connection
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, connKey(id), &conn); err != nil {
			return err
		}
		if patch.Label != nil {
			conn.Label = *patch.Label
		}
		return setJSON(txn, connKey(id), &conn)
	})
	if err != nil {
		return nil, fmt.Errorf("update connection %s: %w", id, err)
	}
	return &conn, nil
}

// DeleteConnection removes a single edge and its endpoint index entries.
func (s *GraphStore) DeleteConnection(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var conn datatypes.Connection
		if err := getJSON(txn, connKey(id), &conn); err != nil {
			return err
		}
		return deleteConnTxn(txn, &conn)
	})
	if err != nil {
		return fmt.Errorf("delete connection %s: %w", id, err)
	}
	return nil
}

func deleteConnTxn(txn *badger.Txn, conn *datatypes.Connection) error {
	if err := txn.Delete(ideaConnKey(conn.SourceID, conn.ID)); err != nil {
		return err
	}
	if err := txn.Delete(ideaConnKey(conn.TargetID, conn.ID)); err != nil {
		return err
	}
	return txn.Delete(connKey(conn.ID))
}
