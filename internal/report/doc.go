// Package report writes scan reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the plain text station listing for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: a Markdown table for sharing and documentation
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
