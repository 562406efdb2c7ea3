package interfaces

// StagedDocument is a file written to the staging area but not yet
// renamed into its final location under the media root.
type StagedDocument struct {
	FieldName        string
	OriginalFilename string
	TempPath         string
	Size             int64
}

// DocumentStore persists uploaded application documents. Stage writes
// bytes to a temporary area; Commit moves a staged file to its final
// relative path; Discard drops a staged file. Remove deletes a
// committed file (compensation path). Resolve maps a stored relative
// path back to an absolute one for streaming, rejecting paths that
// escape the media root.
type DocumentStore interface {
	Stage(fieldName, originalFilename string, content []byte) (*StagedDocument, error)
	Commit(staged *StagedDocument, relPath string) error
	Discard(staged *StagedDocument)
	Remove(relPath string) error
	Resolve(relPath string) (string, error)
}
