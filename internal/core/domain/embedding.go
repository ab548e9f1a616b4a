package domain

import "strconv"

// Metadata keys stored alongside every embedding record.
const (
	MetaKind       = "kind"
	MetaTitle      = "title"
	MetaURL        = "url"
	MetaSourceURL  = "source_url"
	MetaProvider   = "provider"
	MetaAuthors    = "authors"
	MetaPopularity = "popularity"
	MetaYear       = "year"
)

// EmbeddingRecord is one persisted entry of the vector store.
type EmbeddingRecord struct {
	// ID matches the Resource.ID that produced the record.
	ID string

	// Embedding is the document vector. Its length equals the store dimension.
	Embedding []float32

	// Document is the text that was embedded.
	Document string

	// Metadata holds flat string attributes of the source resource.
	Metadata map[string]string

	// Seq is the insertion sequence assigned by the store.
	// Earlier records have smaller values; used to break distance ties.
	Seq int64
}

// SearchHit is a single semantic search result.
type SearchHit struct {
	// ID is the record id.
	ID string `json:"id"`

	// Document is the stored document text.
	Document string `json:"document"`

	// Metadata holds the stored resource attributes.
	Metadata map[string]string `json:"metadata"`

	// Distance is the cosine distance to the query (0 = identical).
	Distance float64 `json:"distance"`
}

// RecordMetadata flattens a resource into the metadata map stored with its embedding.
func RecordMetadata(r Resource) map[string]string {
	meta := map[string]string{
		MetaKind:       r.Kind.String(),
		MetaTitle:      r.Title,
		MetaURL:        r.URL,
		MetaSourceURL:  r.SourceURL,
		MetaProvider:   r.Provider,
		MetaAuthors:    r.AuthorsOrChannel(),
		MetaPopularity: strconv.FormatInt(r.Popularity, 10),
	}
	if r.Year != nil {
		meta[MetaYear] = strconv.Itoa(*r.Year)
	}
	return meta
}
