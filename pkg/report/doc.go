// Package report turns command results into terminal output.
//
// Commands never print. The CLI hands their results to a Reporter, which
// writes one line per unit, per-repository headers, warnings and a
// summary. Styling comes from pkg/style; a plain theme produces text with
// no escape sequences, which is what tests and pipes get.
package report
