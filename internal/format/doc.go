// Package format renders a parsed manifest in canonical form.
//
// Назначение: `spn fmt` и проверка идемпотентности (parse → format → parse).
// Комментарии сохраняются: перед узлом, за которым стояли, или в конце той же строки.
// Не делает: исправления ошибок, IO.
// Зависимости: internal/ast, internal/lexer, internal/parser, internal/source.
package format
