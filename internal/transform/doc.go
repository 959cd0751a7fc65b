// Package transform derives output signatures for target calling
// conventions from the normalized declaration model.
//
// A single parameterized transformer consumes the per-convention rules
// table in this package; there is one code path for all four
// conventions, not one per convention.
package transform
