// Package exporter writes the pipeline's durable artifacts as CSV.
//
// CSVWriter is the core writer: headers, streaming, and a UTF-8 BOM so
// the files open cleanly in Excel. ReportExporter sits on top of it and
// writes the merged trade snapshot, one file per aggregate table,
// the structured insights, the hypothesis-test results, and the daily
// summary. NaN statistics are written as empty cells, never as "NaN" or
// a zero.
package exporter
