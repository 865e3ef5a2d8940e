// Package diag defines the diagnostic model shared by the parser, the
// transpiler and the merge engine.
//
// Diagnostics carry a Severity, a stable numeric Code, a short message and a
// primary source.Span. Producers emit through a Reporter and never format or
// print anything themselves; rendering lives in the CLI.
//
// Two kinds of findings flow through this package:
//
//   - non-fatal ones (recognition gaps, audited unit substitutions) which are
//     collected into a Bag and shown to the operator;
//   - fatal ones, which are returned as Go errors by their owning package and
//     converted into a single SevError diagnostic by the driver so that the
//     CLI can render both the same way.
//
// Code ranges:
//
//	1000-1999  PRS  mini-parser
//	3000-3999  IR   intermediate representation builder
//	4000-4999  TRN  Dialect-L transpiler
//	5000-5999  MRG  merge engine
//	6000-6999  PRJ  project manifest and module discovery
//	7000-7999  IO   file access
//	8000-8999  OBS  observability
package diag
