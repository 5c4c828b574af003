package kessot

// Options configures a Body at construction time. The zero value
// disables resolution tracing. There is no file format or loader for
// Options — callers build one as a plain struct literal.
type Options struct {
	// TraceEnabled turns on per-subgoal resolution tracing.
	TraceEnabled bool

	// TraceDir is the directory JSONL trace files are written to. Only
	// consulted when TraceEnabled is true; required in that case.
	TraceDir string
}
