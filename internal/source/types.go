package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
)

// NoFileID marks the absence of a file reference.
const NoFileID FileID = 0

// File captures metadata for a single source file referenced by unit payloads.
// Content is not carried: the pass consumes already-resolved declaration
// trees, so only the path survives for diagnostics.
type File struct {
	ID   FileID
	Path string
}
