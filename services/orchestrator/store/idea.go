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
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
)

// IdeaDraft carries the caller-supplied fields of a new idea.
type IdeaDraft struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	ParentID    string
	PositionX   float64
	PositionY   float64
}

// CreateIdea persists a new idea. The owning project must exist; a parent
// reference, when set, must name an existing idea in the same project.
func (s *GraphStore) CreateIdea(draft IdeaDraft) (*datatypes.Idea, error) {
	var idea *datatypes.Idea
	err := s.db.Update(func(txn *badger.Txn) error {
		created, err := createIdeaTxn(txn, draft, s.now)
		if err != nil {
			return err
		}
		idea = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	return idea, nil
}

// CreateIdeas persists a batch of ideas in one transaction, preserving
// input order. Each draft is validated independently against the graph;
// there is no cross-validation between batch members.
func (s *GraphStore) CreateIdeas(drafts []IdeaDraft) ([]*datatypes.Idea, error) {
	ideas := make([]*datatypes.Idea, 0, len(drafts))
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, draft := range drafts {
			idea, err := createIdeaTxn(txn, draft, s.now)
			if err != nil {
				return err
			}
			ideas = append(ideas, idea)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create ideas batch: %w", err)
	}
	return ideas, nil
}

func createIdeaTxn(txn *badger.Txn, draft IdeaDraft, now func() time.Time) (*datatypes.Idea, error) {
	ok, err := exists(txn, projectKey(draft.ProjectID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("project %s: %w", draft.ProjectID, ErrNotFound)
	}

	if draft.ParentID != "" {
		var parent datatypes.Idea
		if err := getJSON(txn, ideaKey(draft.ParentID), &parent); err != nil {
			return nil, fmt.Errorf("parent idea %s: %w", draft.ParentID, err)
		}
		if parent.ProjectID != draft.ProjectID {
			return nil, fmt.Errorf("parent idea %s belongs to project %s: %w",
				draft.ParentID, parent.ProjectID, ErrInvalidReference)
		}
	}

	status := draft.Status
	if status == "" {
		status = datatypes.StatusResonance
	}

	ts := now().UTC()
	idea := &datatypes.Idea{
		ID:          uuid.NewString(),
		ProjectID:   draft.ProjectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
		ParentID:    draft.ParentID,
		PositionX:   draft.PositionX,
		PositionY:   draft.PositionY,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := setJSON(txn, ideaKey(idea.ID), idea); err != nil {
		return nil, err
	}
	if err := txn.Set(projIdeaKey(idea.ProjectID, idea.ID), nil); err != nil {
		return nil, err
	}
	return idea, nil
}

// GetIdea returns the idea with the given ID.
func (s *GraphStore) GetIdea(id string) (*datatypes.Idea, error) {
	var idea datatypes.Idea
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, ideaKey(id), &idea)
	})
	if err != nil {
		return nil, fmt.Errorf("idea %s: %w", id, err)
	}
	return &idea, nil
}

// ListIdeas returns every idea of the given project, newest first. Ideas of
// other projects are never included.
func (s *GraphStore) ListIdeas(projectID string) ([]*datatypes.Idea, error) {
	var ideas []*datatypes.Idea
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
		for _, ideaID := range ideaIDs {
			var idea datatypes.Idea
			if err := getJSON(txn, ideaKey(ideaID), &idea); err != nil {
				return fmt.Errorf("idea %s: %w", ideaID, err)
			}
			ideas = append(ideas, &idea)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	sort.Slice(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
	})
	return ideas, nil
}

// IdeaPatch is a partial idea update. Nil fields are left unchanged.
type IdeaPatch struct {
	Title                *string
	Description          *string
	Status               *string
	Confidence           *float64
	CalibratedConfidence *float64
	ValidationReasoning  *string
	PositionX            *float64
	PositionY            *float64
}

// UpdateIdea applies a partial update inside one transaction.
func (s *GraphStore) UpdateIdea(id string, patch IdeaPatch) (*datatypes.Idea, error) {
	var idea datatypes.Idea
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, ideaKey(id), &idea); err != nil {
			return err
		}
		if patch.Title != nil {
			idea.Title = *patch.Title
		}
		if patch.Description != nil {
			idea.Description = *patch.Description
		}
		if patch.Status != nil {
			idea.Status = *patch.Status
		}
		if patch.Confidence != nil {
			v := clamp01(*patch.Confidence)
			idea.Confidence = &v
		}
		if patch.CalibratedConfidence != nil {
			v := clamp01(*patch.CalibratedConfidence)
			idea.CalibratedConfidence = &v
		}
		if patch.ValidationReasoning != nil {
			idea.ValidationReasoning = *patch.ValidationReasoning
		}
		if patch.PositionX != nil {
			idea.PositionX = *patch.PositionX
		}
		if patch.PositionY != nil {
			idea.PositionY = *patch.PositionY
		}
		idea.UpdatedAt = s.now().UTC()
		return setJSON(txn, ideaKey(id), &idea)
	})
	if err != nil {
		return nil, fmt.Errorf("update idea %s: %w", id, err)
	}
	return &idea, nil
}

// DeleteIdea removes an idea and every connection touching it.
func (s *GraphStore) DeleteIdea(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var idea datatypes.Idea
		if err := getJSON(txn, ideaKey(id), &idea); err != nil {
			return err
		}
		return deleteIdeaTxn(txn, idea.ProjectID, id)
	})
	if err != nil {
		return fmt.Errorf("delete idea %s: %w", id, err)
	}
	return nil
}

// deleteIdeaTxn removes the idea record, its project index entry, and every
// connection that has the idea as an endpoint (including the far endpoint's
// index entry for that connection).
func deleteIdeaTxn(txn *badger.Txn, projectID, ideaID string) error {
	connIDs, err := scanIndex(txn, prefixIdeaConns+ideaID+":")
	if err != nil {
		return err
	}
	for _, connID := range connIDs {
		var conn datatypes.Connection
		err := getJSON(txn, connKey(connID), &conn)
		if errors.Is(err, ErrNotFound) {
			// Already removed via the other endpoint in this cascade.
			continue
		}
		if err != nil {
			return err
		}
		if err := deleteConnTxn(txn, &conn); err != nil {
			return err
		}
	}
	if err := txn.Delete(projIdeaKey(projectID, ideaID)); err != nil {
		return err
	}
	return txn.Delete(ideaKey(ideaID))
}
