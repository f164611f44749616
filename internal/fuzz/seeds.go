package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// handSeeds cover constructs the testdata corpus has no file for.
var handSeeds = []string{
	"",
	"#!",
	"#! spn 1.0\n",
	"{}",
	"app",
	"app {",
	"app { port: }",
	"app { [ }",
	"app { a: [1, 2,, 3] }",
	"app { a: x | | y }",
	"app { a: \"unterminated }",
	"app { a: ${open }",
	"app { a: @[never closed }",
	"app { a: <never closed }",
	"app { n: 99999999999999999999999 }",
	"app { \x00\xff\xfe }",
	"{ { { { } } } }",
	"app { a: [[[[[[]]]]]] }",
	"; only a comment",
	"app \"x\" { port: 1, port: 2, port: 3 }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range handSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.spn файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".spn" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
