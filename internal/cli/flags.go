package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	DataDir string `long:"data-dir" description:"Working directory for the canonical store and staged files" default:""`
	Specs   string `long:"specs" description:"Path to a YAML browser-spec override file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
}

// ImportCommand — import a browsing history snapshot into a fresh canonical store.
type ImportCommand struct {
	Browser string `long:"browser" description:"Browser to import: Chrome | Firefox | Safari | IE11 (defaults to the last-used browser)"`
	File    string `long:"file" description:"History artifact path (skips automatic discovery)"`
	Days    int    `long:"days" description:"Import visits from the last N days" default:"60"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show the imported date range, domain count, and browser.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// VisitsCommand — aggregate visit counts by stemmed domain.
type VisitsCommand struct {
	Date   string `long:"date" description:"Single day filter (YYYY-MM-DD)"`
	From   string `long:"from" description:"Range start (YYYY-MM-DD)"`
	To     string `long:"to" description:"Range end, inclusive (YYYY-MM-DD)"`
	Limit  int    `long:"top" description:"Show the top N domains (0 = all)" default:"25"`
	Bottom bool   `long:"bottom" description:"Show the least visited domains instead"`

	globals *GlobalFlags
	version string
}

// DomainsCommand — group canonical urls by stemmed domain.
type DomainsCommand struct {
	Sort   string `long:"sort" description:"Sort order: domains | frequency" default:"domains" choice:"domains" choice:"frequency"`
	Filter string `long:"filter" description:"Substring filter over the raw url"`
	Raw    bool   `long:"raw" description:"Group by raw url instead of stemmed domain"`

	globals *GlobalFlags
	version string
}

// EntriesCommand — flat per-visit listing with human-readable dates.
type EntriesCommand struct {
	Sort   string `long:"sort" description:"Sort order: date | domains | frequency" default:"date" choice:"date" choice:"domains" choice:"frequency"`
	Filter string `long:"filter" description:"Substring filter over the url"`

	globals *GlobalFlags
	version string
}

// TermsCommand — extract search terms from imported urls.
type TermsCommand struct {
	Sort   string `long:"sort" description:"Sort order: keywords | frequency" default:"keywords" choice:"keywords" choice:"frequency"`
	Filter string `long:"filter" description:"Substring filter over the url"`

	globals *GlobalFlags
	version string
}

// AnonymizeCommand — irreversibly anonymize selected canonical rows.
type AnonymizeCommand struct {
	Kind    string   `long:"kind" description:"Mutation kind: domains | urls | keywords" default:"domains" choice:"domains" choice:"urls" choice:"keywords"`
	Domains []string `long:"domain" description:"Stemmed domain to anonymize (repeatable)"`
	Terms   []string `long:"term" description:"Search term to anonymize (repeatable, kind=keywords)"`
	IDs     []int64  `long:"id" description:"Explicit url id to anonymize (repeatable, kind=urls)"`

	globals *GlobalFlags
	version string
}

// ExportCommand — write the full canonical join as delimiter-separated records.
type ExportCommand struct {
	Out string `long:"out" description:"Output file (default: stdout)"`

	globals *GlobalFlags
	version string
}
