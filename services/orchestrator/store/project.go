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

// CreateProject persists a new project and returns it with its generated ID.
func (s *GraphStore) CreateProject(name, goal string) (*datatypes.Project, error) {
	project := &datatypes.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Goal:      goal,
		CreatedAt: s.now().UTC(),
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, projectKey(project.ID), project)
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// GetProject returns the project with the given ID.
func (s *GraphStore) GetProject(id string) (*datatypes.Project, error) {
	var project datatypes.Project
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, projectKey(id), &project)
	})
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", id, err)
	}
	return &project, nil
}

// ListProjects returns all projects, newest first.
func (s *GraphStore) ListProjects() ([]*datatypes.Project, error) {
	var projects []*datatypes.Project
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixProject)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var project datatypes.Project
			err := it.Item().Value(func(val []byte) error {
				return decodeInto(val, &project)
			})
			if err != nil {
				return err
			}
			projects = append(projects, &project)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// ProjectPatch is a partial project update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name                *string
	Goal                *string
	Context             *string
	ContextCompleteness *float64
}

// UpdateProject applies a partial update inside one transaction. The context
// blob is replaced whole, never spliced, so readers can never observe a
// torn blob.
func (s *GraphStore) UpdateProject(id string, patch ProjectPatch) (*datatypes.Project, error) {
	var project datatypes.Project
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, projectKey(id), &project); err != nil {
			return err
		}
		if patch.Name != nil {
			project.Name = *patch.Name
		}
		if patch.Goal != nil {
			project.Goal = *patch.Goal
		}
		if patch.Context != nil {
			project.Context = *patch.Context
		}
		if patch.ContextCompleteness != nil {
			project.ContextCompleteness = clamp01(*patch.ContextCompleteness)
		}
		return setJSON(txn, projectKey(id), &project)
	})
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return &project, nil
}

// SaveProjectContext replaces the project's context blob and completeness
// score in a single commit. This is the write half of the context ledger.
func (s *GraphStore) SaveProjectContext(id, context string, completeness float64) (*datatypes.Project, error) {
	c := clamp01(completeness)
	return s.UpdateProject(id, ProjectPatch{Context: &context, ContextCompleteness: &c})
}

// DeleteProject removes a project, every idea it owns, and every connection
// touching those ideas, in one transaction.
func (s *GraphStore) DeleteProject(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var project datatypes.Project
		if err := getJSON(txn, projectKey(id), &project); err != nil {
			return err
		}

		ideaIDs, err := scanIndex(txn, prefixProjIdeas+id+":")
		if err != nil {
			return err
		}
		for _, ideaID := range ideaIDs {
			if err := deleteIdeaTxn(txn, id, ideaID); err != nil {
				return err
			}
		}
		return txn.Delete(projectKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
