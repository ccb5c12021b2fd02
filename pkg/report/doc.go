// Package report assembles regression-result summaries into HTML tables. It
// is the consumer side of the template engine: it turns model summaries
// (coefficients plus fit statistics) into the field→value context the
// renderer consumes, and ships the master/table templates whose footer block
// callers can override through template inheritance. Statistical correctness
// of the summaries is the caller's concern; this package only formats and
// lays out whatever values it is handed.
package report
