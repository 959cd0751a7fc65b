// Package synth generates the forwarding implementations and assembles
// the output files.
//
// Key capabilities:
//   - Forwarding bodies per target convention, adapting the source's
//     outcome into the convention's idioms
//   - Requirement-only interface emission and paired adapter emission
//     for interface sources
//   - Synchronized accessor generation for guarded struct fields
//   - gofmt-formatted file assembly with import management
package synth
