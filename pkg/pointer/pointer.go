// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional fields.

Admin review records and PATCH inputs use pointers to tell "not set" apart
from a zero value.
*/
package pointer

// To returns a pointer to a copy of v, e.g. an optional review score taken
// from a flag or a literal.
func To[T any](v T) *T {
	return &v
}
