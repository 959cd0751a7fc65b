// Package diagnostic provides structured errors, warnings, and
// informational notes reported by the synthesis pipeline.
//
// Key capabilities:
//   - Unsupported declaration shape errors
//   - Unknown directive key/value warnings
//   - Availability notes attached to derived declarations
//   - Non-fatal per-derivation error collection
package diagnostic
