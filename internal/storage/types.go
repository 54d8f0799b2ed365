package storage

// URLRecord is one canonical url row.
type URLRecord struct {
	ID            int64
	URL           string
	Title         string
	RevHost       string
	VisitCount    int64
	Typed         int64
	LastVisitDate float64
	RedirectURLs  string
}

// Entry is one row of the flat per-visit listing: the canonical join of a
// visit with its url, plus a human-readable date.
type Entry struct {
	URLID      int64
	Date       string
	URL        string
	VisitCount int64
	VisitDate  float64
}

// DomainVisits aggregates visit counts for one stemmed domain.
type DomainVisits struct {
	Domain  string
	Count   int64
	Percent float64
}

// DomainSelection groups canonical urls by stemmed domain, keeping the
// contributing url identifiers so the anonymization engine can mutate them.
type DomainSelection struct {
	Domain string
	IDs    []int64
	Count  int64
}

// SearchTerm is one extracted query term with its contributing url ids and
// the distinct domains it occurred on.
type SearchTerm struct {
	Term    string
	IDs     []int64
	Count   int
	Domains []string
}

// Stats summarizes the canonical store after an import.
type Stats struct {
	TotalURLs   int64
	TotalVisits int64
	// EarliestVisit and LatestVisit are human-formatted dates, or empty
	// when the store holds no visits.
	EarliestVisit string
	LatestVisit   string
	NumDomains    int
}

// Sort orders accepted by the aggregation queries.
const (
	SortDomains   = "domains"
	SortFrequency = "frequency"
	SortDate      = "date"
	SortKeywords  = "keywords"
)
