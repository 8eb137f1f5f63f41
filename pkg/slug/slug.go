// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slug derives the URL form of award category names.

Reviewers filter the queue with ?category=innovation-technology and submission
events carry the same slug, so the form must be stable for a given name.
*/
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks, so
// "Éducation" folds to "Education".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

/*
From folds name to lowercase ASCII words joined by single hyphens.

Letters and digits outside ASCII that survive accent folding are dropped
along with punctuation; "&" therefore disappears between words.
*/
func From(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}

// Match reports whether value names the same slug as name, accepting either
// the display name or its slug.
func Match(name, value string) bool {
	return value != "" && From(value) == From(name)
}
