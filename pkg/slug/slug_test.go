// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/writory/pkg/slug"
)

/*
TestFrom covers the normalization pipeline: accents, case, punctuation, and
hyphen collapsing.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple_title", "My First Post", "my-first-post"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"multiple_spaces", "too   many    spaces", "too-many-spaces"},
		{"leading_trailing", "  padded  ", "padded"},
		{"numbers", "Top 10 Go Tips", "top-10-go-tips"},
		{"already_slug", "already-a-slug", "already-a-slug"},
		{"empty", "", ""},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
