package activities

// Staging names where intermediate results of one ingestion run live in the
// object store. Activity inputs and outputs carry only keys and counts, so
// workflow history stays small however large the document is.
type Staging struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
}

func (s Staging) key(name string) string {
	return s.Prefix + "/" + name
}

const (
	pagesObject   = "pages.json"
	chunksObject  = "chunks.json"
	entriesObject = "entries.json"
)

type FetchPagesInput struct {
	Bucket   string  `json:"bucket"`
	FileName string  `json:"file_name"`
	Staging  Staging `json:"staging"`
}

type FetchPagesOutput struct {
	Pages int `json:"pages"`
}

type ChunkPagesInput struct {
	Source  string  `json:"source"`
	Staging Staging `json:"staging"`
}

type ChunkPagesOutput struct {
	Chunks int `json:"chunks"`
}

type EmbedChunksInput struct {
	Staging Staging `json:"staging"`
}

type EmbedChunksOutput struct {
	Embedded int    `json:"embedded"`
	Model    string `json:"model"`
}

type IndexChunksInput struct {
	Source  string  `json:"source"`
	Staging Staging `json:"staging"`
}

type IndexChunksOutput struct {
	Indexed int `json:"indexed"`
}

type CleanupStagingInput struct {
	Staging Staging `json:"staging"`
}
