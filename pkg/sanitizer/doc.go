// Package sanitizer normalizes user-supplied text before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be normalized
// comes back empty (or nil for optional values) and is left for the validator
// to reject.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number])
//   - E-mails: trimmed and lowercased
//   - Free text: whitespace collapsed, ends trimmed
//   - URLs: http(s) only, lowercase host, trailing slash removed
//   - Slices: duplicates and empty values removed after normalization
package sanitizer
