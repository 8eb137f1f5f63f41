// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses multi-value URL query parameters.
package query

import "strings"

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings, skipping empty entries.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(val, ",") {
		clean := strings.TrimSpace(part)
		if clean != "" {
			result = append(result, clean)
		}
	}
	return result
}
