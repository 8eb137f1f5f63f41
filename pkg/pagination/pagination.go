// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pagination pages the reviewer queue.

The admin list reads ?page=&limit= and answers with a Meta block next to the
page of nominations. Pages are 1-indexed.
*/
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	// MaxLimit caps one page of full nomination documents.
	MaxLimit = 100
)

// Params is a requested page.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the page.
func (params Params) Offset() int {
	if params.Page <= 1 {
		return 0
	}
	return (params.Page - 1) * params.Limit
}

// Meta describes the page returned to a reviewer.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// NewMeta derives page counts from the total number of matching nominations.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

/*
FromRequest reads the page and limit query parameters.

Unparsable or non-positive values fall back to the defaults; a limit above
MaxLimit is lowered to MaxLimit.
*/
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	params := Params{
		Page:  positiveInt(query.Get("page"), DefaultPage),
		Limit: positiveInt(query.Get("limit"), DefaultLimit),
	}
	params.Limit = min(params.Limit, MaxLimit)
	return params
}

func positiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
