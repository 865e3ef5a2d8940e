// Package parser turns module scripts into an ast node stream.
//
// Both dialects sit behind NodeSource. Jass is recognised line by line with
// a handful of regular expressions and never fails; Lua is parsed with
// gopher-lua and the syntax tree is walked to produce the same node shapes.
// Neither is a compiler front end: only the statements that feed the IR are
// recognised, everything else passes through untouched.
package parser
