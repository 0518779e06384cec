// Package lang implements the quill scripting language: a lexer, a
// precedence-climbing recursive-descent parser and a tree-walking evaluator
// sharing one flat name/value environment.
//
// # Grammar
//
// Informal EBNF, highest binding last:
//
//	Program        → Statement* EOF
//	Statement      → "let" Assignment | Expression
//	Expression     → Assignment
//	Assignment     → Additive ( AssignOp Additive )?
//	Additive       → Multiplicative ( ( "+" | "-" ) Multiplicative )*
//	Multiplicative → Primary ( ( "*" | "/" | "%" | "^" ) Primary )*
//	Primary        → Integer | Float
//	               | Identifier ( "(" Arguments? ")" )?
//	               | "(" Expression ")"
//	               | "{" Statement* "}"
//	Arguments      → Expression ( "," Expression )*
//	AssignOp       → "=" | "+=" | "-=" | "*=" | "/=" | "%=" | "^="
//
// Statements have no separator. A statement ends where the grammar can no
// longer extend it, so "a = 1 b = 2" is two statements.
//
// Comments open with '#' and close with '!'. They may span lines.
//
// # Example
//
//	let a = (3 + 5)      # a is the integer 8 !
//	let b = a / 2        # division always yields a float: 4 !
//	a += 1
//	print(a, b, 7 % 2)   # prints "9, 4, 1" !
//
// # Values
//
// Integers are signed 128-bit. Overflow is an error, never a wraparound.
// Floats are IEEE-754 doubles. Mixing an integer and a float in + - * ^
// promotes to float; "/" always yields a float; "%" accepts only integers.
//
// # Scoping
//
// There is exactly one binding table per [Env]. A brace block is a sequence
// of statements evaluating to its last value; it does not introduce a new
// scope, so a name declared inside a block remains visible after it.
//
// # Errors
//
// Every failure is an [*Error] carrying an [ErrorKind] and the source
// position that caused it. Lexing and evaluation stop at the first error.
// Parsing collects one error per failed top-level statement and resumes at
// the next statement boundary; [Run] reports the collection as a
// [*ParseError] without evaluating anything.
//
// # Formatting
//
// [Format] renders a parsed program back to canonical source, inserting
// only the parentheses its precedence requires.
package lang
