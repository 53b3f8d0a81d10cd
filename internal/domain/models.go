package domain

// SourceFormat identifies the declared format of an uploaded document.
type SourceFormat string

const (
	FormatPDF   SourceFormat = "pdf"
	FormatWord  SourceFormat = "word"
	FormatImage SourceFormat = "image"
)

// SubmittedDocument represents the raw upload as received from the caller.
// It is discarded once the normalizer has produced a CanonicalDocument.
type SubmittedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Submission carries the form metadata that accompanies an upload.
type Submission struct {
	Role    string
	Email   string
	Message string
}

// CanonicalDocument is the paged, renderable form every supported input is
// normalized into. Path points into the workspace raw area.
type CanonicalDocument struct {
	Path      string
	PageCount int
	Source    SourceFormat
}

// PageImage represents a single rendered page.
type PageImage struct {
	PageNumber int // 1-based
	Path       string
	Width      int
	Height     int
}

// PreparedPage is a grayscale-normalized page image ready for recognition.
type PreparedPage struct {
	PageNumber int
	Path       string
}

// PageText holds the recognized text for one page. Empty text is a valid
// result; it is the outcome for pages that could not be decoded or recognized.
type PageText struct {
	PageNumber int
	Text       string
}

// ExtractionResult is the terminal output of one pipeline invocation.
type ExtractionResult struct {
	Submission   Submission
	Pages        []PageText
	CombinedText string
}
