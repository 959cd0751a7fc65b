// Package decl builds the convention-agnostic declaration model that the
// rest of the pipeline consumes.
//
// Key capabilities:
//   - Loading Go packages (AST + go/types) and collecting declarations
//     annotated with //bridgegen: directives
//   - One-pass classification of annotated nodes into a closed Shape set
//   - Normalizing functions and interface methods into Declaration values
//     (ordered parameters, effect qualifiers, result, context)
package decl
