// Package diagnostic provides structured warnings and errors for the
// savepipe generator.
//
// Nothing in the pipeline logs. Every stage appends to a Diagnostics value
// that is handed back to the caller next to its result, and the CLI decides
// how to print them.
//
// Key capabilities:
//   - Unresolved base reports with "did you mean" suggestions
//   - Base cycle reports
//   - Field conversion warnings (type mismatch, unexported across packages)
//   - Provider warnings (bad struct tags, package type errors)
package diagnostic
