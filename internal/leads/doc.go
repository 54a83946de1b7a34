// Package leads holds the lead-intake domain model and the pure logic that
// operates on it.
//
// Nothing in this package performs I/O beyond writing to a caller-supplied
// io.Writer, so it can be used by the web dashboard, the leadctl CLI, or
// tests without modification.
//
// # Components
//
//   - Model: [Submission], [Affiliate], [Tag], [Admin], [FormConfig] and the
//     normalized reference type [Ref] used for affiliate and tag links.
//   - Import parser: [ParseImport] turns pasted free text into [Candidate]
//     records using colon-delimited key heuristics.
//   - Duplicate resolver: [DuplicateIndex] groups records sharing an email,
//     CPF or phone and marks the earliest-created one as canonical.
//   - Filter engine: [Apply] narrows a record set by a [Filter].
//   - Export encoder: [Exporter] writes CSV (with a UTF-8 BOM) or JSON.
//
// # Duplicate ordering
//
// Records sharing a value are ordered by creation time, then by ID. The ID
// fallback makes the canonical choice deterministic when two records carry
// exactly the same timestamp.
package leads
