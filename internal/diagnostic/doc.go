// Package diagnostic provides structured errors, warnings, and notes
// produced while validating and resolving pipeline declarations.
//
// Key capabilities:
//   - Coded findings tied to a rule or plugin and an option path
//   - Aggregation across validation and resolution passes
//   - Conversion of error findings into a single Go error
package diagnostic
