// Package transpile rewrites captured Dialect-L function bodies into
// Dialect-J, one line at a time, and downgrades captured Dialect-J bodies
// to natives available on the target engine version.
//
// The output of Transpile has exactly as many lines as its input.
package transpile
