// Package fuzztests houses Go fuzz harnesses for the manifest pipeline
// (source -> lexer -> parser -> format). The goal is to smoke test
// robustness: no panics, no hangs, and every token stream keeps its span
// invariants on arbitrary input.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и форматтер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
