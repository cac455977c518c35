// Package cluster groups corpus entities by textual similarity: TF-IDF
// vectors over a bounded vocabulary, partitioned with seeded k-means.
// Cluster ids are opaque within one fit and carry no taxonomic meaning.
package cluster

// Defaults for the partitioning step.
const (
	DefaultK    = 5
	DefaultSeed = 42
)

// Assignment is the result of one fit: a cluster id per input document plus
// the fitted centroids and vocabulary for introspection.
type Assignment struct {
	Labels    []int
	Centroids [][]float64
	Terms     []string
	K         int
}

// Engine vectorizes documents and partitions them.
type Engine struct {
	vectorizer *Vectorizer
}

// NewEngine creates an engine with the default vocabulary cap.
func NewEngine() *Engine {
	return &Engine{vectorizer: NewVectorizer(MaxVocabulary)}
}

// Cluster fits k clusters over the documents. k of zero or less uses
// DefaultK; k larger than the corpus clamps to the corpus size. An empty
// corpus yields an empty Assignment. The same (docs, k, seed) always yields
// the same labels.
func (e *Engine) Cluster(docs []string, k int, seed int64) (Assignment, error) {
	if len(docs) == 0 {
		return Assignment{}, nil
	}
	if k <= 0 {
		k = DefaultK
	}
	if k > len(docs) {
		k = len(docs)
	}

	model, vectors := e.vectorizer.Fit(docs)
	labels, centroids := kmeans(vectors, k, seed)

	return Assignment{
		Labels:    labels,
		Centroids: centroids,
		Terms:     model.Terms,
		K:         k,
	}, nil
}
