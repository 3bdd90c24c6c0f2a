package document

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/piprate/json-gold/ld"
)

// ProcessorOpt configures Canonicalize.
type ProcessorOpt func(*ProcessorOptions)

// ProcessorOptions holds configuration for JSON-LD processing.
type ProcessorOptions struct {
	documentLoader ld.DocumentLoader
	algorithm      string
}

// WithDocumentLoader sets the loader used to fetch the document's contexts.
func WithDocumentLoader(loader ld.DocumentLoader) ProcessorOpt {
	return func(p *ProcessorOptions) {
		p.documentLoader = loader
	}
}

// WithAlgorithm sets the canonicalization algorithm.
func WithAlgorithm(alg string) ProcessorOpt {
	return func(p *ProcessorOptions) {
		p.algorithm = alg
	}
}

var (
	defaultLoader     ld.DocumentLoader
	defaultLoaderOnce sync.Once
)

// sharedDocumentLoader caches remote contexts across calls.
func sharedDocumentLoader() ld.DocumentLoader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	})
	return defaultLoader
}

// Canonicalize returns the RDF dataset canonicalization of doc as N-Quads,
// suitable for hashing.
func Canonicalize(doc *Document, opts ...ProcessorOpt) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	options := &ProcessorOptions{algorithm: ld.AlgorithmURDNA2015}
	for _, opt := range opts {
		opt(options)
	}
	if options.documentLoader == nil {
		options.documentLoader = sharedDocumentLoader()
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DID document: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DID document: %w", err)
	}

	processor := ld.NewJsonLdProcessor()
	jsonldOptions := ld.NewJsonLdOptions("")
	jsonldOptions.Format = "application/n-quads"
	jsonldOptions.Algorithm = options.algorithm
	jsonldOptions.DocumentLoader = options.documentLoader

	canonicalized, err := processor.Normalize(generic, jsonldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	out, ok := canonicalized.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected normalization result %T", canonicalized)
	}
	return []byte(out), nil
}
