// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planner

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ErrNoPlanJSON means the model response contained no parseable JSON object.
var ErrNoPlanJSON = errors.New("planner: no JSON object found in model response")

// ExtractPlanJSON pulls the first JSON object out of a model response.
// Models are told to emit bare JSON but still wrap it in code fences or
// prose often enough that both are handled here.
func ExtractPlanJSON(text string) (any, error) {
	candidates := make([]string, 0, 2)

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if obj := firstBalancedObject(text); obj != "" {
		candidates = append(candidates, obj)
	}

	for _, c := range candidates {
		var raw any
		if err := json.Unmarshal([]byte(c), &raw); err == nil {
			return raw, nil
		}
	}
	return nil, ErrNoPlanJSON
}

// firstBalancedObject returns the first brace-balanced substring starting at
// the first '{', tracking strings and escapes so braces in values do not
// terminate the scan early.
func firstBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
