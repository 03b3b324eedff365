package langdetect

import (
	"testing"

	"github.com/corvid-labs/antislop/pkg/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want models.Language
	}{
		{"a.py", models.LangPython},
		{"b.rs", models.LangRust},
		{"c.js", models.LangJavaScript},
		{"component.tsx", models.LangTypeScript},
		{"component.ts", models.LangTypeScript},
		{"Dockerfile", models.LangShell},
		{"main.go", models.LangGo},
		{"lib.rb", models.LangRuby},
		{"README.md", models.LangUnknown},
		{"script", models.LangUnknown},
	}
	for _, c := range cases {
		if got := Classify(c.path); got != c.want {
			t.Errorf("Classify(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestClassifyShebang(t *testing.T) {
	cases := []struct {
		line string
		want models.Language
	}{
		{"#!/usr/bin/env python3", models.LangPython},
		{"#!/bin/bash", models.LangShell},
		{"#!/usr/bin/env node", models.LangJavaScript},
		{"not a shebang", models.LangUnknown},
		{"#!", models.LangUnknown},
	}
	for _, c := range cases {
		if got := ClassifyShebang(c.line); got != c.want {
			t.Errorf("ClassifyShebang(%q) = %q, want %q", c.line, got, c.want)
		}
	}
}

func TestHasGrammarCapabilitySet(t *testing.T) {
	if !HasGrammar(models.LangGo) {
		t.Error("go should be parse-capable")
	}
	if HasGrammar(models.LangHaskell) {
		t.Error("haskell should be fallback-only (no embedded grammar in this pack)")
	}
	if HasGrammar(models.LangUnknown) {
		t.Error("unknown should never be parse-capable")
	}
}
