// Package pipeline orchestrates a batch: file discovery with the small-file
// filter, dispatch of conversions onto a bounded worker pool, progress and
// summary reporting, and the optional run report.
package pipeline
