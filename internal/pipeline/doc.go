// Package pipeline runs the steps of one scan in sequence.
//
// A run starts with the open network scan, probes each closed network by
// name, ranks the merged stations by signal strength and finally resolves
// their metadata. Each stage is a Step that receives the shared
// model.ScanReport and fills in its part.
//
// Scan failures do not stop the run: a failed scan contributes no stations
// and leaves a warning in the report. Only cancellation of the context ends
// a run early.
package pipeline
