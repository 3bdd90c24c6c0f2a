package resolver

import "github.com/pilacorp/go-did-eosio/document"

// ContentTypeDIDLDJSON is the content type of a resolved document.
const ContentTypeDIDLDJSON = "application/did+ld+json"

// Resolution error kinds reported in ResolutionMetadata.Error.
const (
	ErrorInvalidDID         = "invalidDid"
	ErrorNotFound           = "notFound"
	ErrorInvalidKey         = "invalidKey"
	ErrorMethodNotSupported = "methodNotSupported"
	ErrorInternal           = "internalError"
)

// Result is a DID resolution result. Exactly one of Document and
// ResolutionMetadata.Error is set.
type Result struct {
	ResolutionMetadata ResolutionMetadata `json:"didResolutionMetadata"`
	Document           *document.Document `json:"didDocument"`
	DocumentMetadata   DocumentMetadata   `json:"didDocumentMetadata"`
}

// ResolutionMetadata describes the outcome of a resolution.
type ResolutionMetadata struct {
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DocumentMetadata is always empty for did:eosio.
type DocumentMetadata struct{}

// Failed reports whether the resolution ended in an error.
func (r *Result) Failed() bool {
	return r.ResolutionMetadata.Error != ""
}

func success(doc *document.Document) *Result {
	return &Result{
		ResolutionMetadata: ResolutionMetadata{ContentType: ContentTypeDIDLDJSON},
		Document:           doc,
	}
}

func failure(kind string) *Result {
	return &Result{ResolutionMetadata: ResolutionMetadata{Error: kind}}
}
