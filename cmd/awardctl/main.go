// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command awardctl submits nominations from the terminal and gives the
// awards committee a scriptable review client.
//
// # Usage
//
//	awardctl submit --draft draft.json --photo amina.jpg --doc letter.pdf
//	awardctl status NOM-20260615103000-ABCDEF
//	awardctl review NOM-20260615103000-ABCDEF --status approved --score 87
//	awardctl move NOM-20260615103000-ABCDEF --to finalist
//	awardctl token --private-key reviewer.pem --user u-17 --role reviewer
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
