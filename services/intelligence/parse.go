// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError indicates the reasoning service's output could not be
// interpreted as the structured shape an operation requires, after fence
// stripping. It names the operation so callers can tell which stage failed.
type ParseError struct {
	Op      string // wander | validate | plan | discover_context | integrate_answers
	Snippet string // leading fragment of the offending output
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse model output: %v (output starts: %q)", e.Op, e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(op, raw string, err error) *ParseError {
	snippet := raw
	if len(snippet) > 120 {
		snippet = snippet[:120]
	}
	return &ParseError{Op: op, Snippet: snippet, Err: err}
}

// stripCodeFence removes a markdown code fence wrapping (``` or ```json)
// from model output. Models frequently fence JSON even when told not to.
// Best-effort text normalization, deliberately separate from the parser.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a language tag like "json" on the opening fence.
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		firstLine := strings.TrimSpace(text[:idx])
		if firstLine == "json" || firstLine == "" {
			text = text[idx+1:]
		}
	} else {
		text = strings.TrimPrefix(text, "json")
	}

	if idx := strings.LastIndex(text, "```"); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// decodeStrict strips fences and decodes into out, converting any failure
// into a ParseError for the given operation. Raw untyped data never leaves
// this boundary; every operation decodes into its own typed result.
func decodeStrict(op, raw string, out interface{}) error {
	cleaned := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return newParseError(op, raw, err)
	}
	return nil
}
