package entities

// IndexEntry is the precomputed search record of one Dua.
type IndexEntry struct {
	ID         string
	ProphetKey string              // slug of the prophet display name
	Topics     map[string]struct{} // normalized topic labels
	SourceType string              // normalized source type
	Haystack   string              // normalized concatenation of every searchable field
}

// HasTopic reports whether the entry is tagged with the normalized topic.
func (e IndexEntry) HasTopic(topic string) bool {
	_, ok := e.Topics[topic]
	return ok
}

// ProphetOption is a distinct prophet available for filtering.
type ProphetOption struct {
	Key   string       // slug used in routes and filters
	Label string       // display label
	Names ProphetNames // merged localized names
	Count int          // number of duas attributed to the prophet
}

// TopicOption is a distinct topic available for filtering.
type TopicOption struct {
	Key   string // normalized label
	Label string // label as first seen in the dataset
	Count int
}
