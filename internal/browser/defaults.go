package browser

// DefaultSpecs returns the built-in browser specs. Source queries convert
// each family's native epoch to Unix seconds inline, so the cutoff
// placeholder always compares against Unix time and the canonical store only
// ever sees normalized timestamps.
func DefaultSpecs() Specs {
	return Specs{
		Chrome: {
			Name: Chrome,
			Paths: map[string][]string{
				"windows": {`C:\Users\{user}\AppData\Local\Google\Chrome\User Data\Default`},
				"darwin":  {`/Users/{user}/Library/Application Support/Google/Chrome/Default`},
				"linux": {
					`/home/{user}/.config/google-chrome/Default`,
					`/home/{user}/.config/chromium/Default`,
				},
			},
			FileNames:      []string{"History"},
			CopyBeforeOpen: true,
			Tables: []TableMap{
				{
					Canonical: "urls",
					Query: `SELECT urls.id, urls.url, urls.title, urls.visit_count, urls.typed,
							((urls.last_visit_date/1000000.0)-11644473600)
						FROM urls, visits
						WHERE urls.id = visits.url
						  AND ((visits.visit_time/1000000.0)-11644473600) >= ?
						  AND NOT REGEXP('^file:', urls.url)`,
					Columns: []string{"id", "url", "title", "visit_count", "typed", "last_visit_date"},
				},
				{
					Canonical: "visits",
					Query: `SELECT visits.id, visits.url, ((visits.visit_time/1000000.0)-11644473600),
							visits.transition, visits.from_visit
						FROM visits
						WHERE ((visits.visit_time/1000000.0)-11644473600) >= ?`,
					Columns: []string{"id", "url_id", "visit_date", "visit_type", "referrer"},
				},
			},
		},

		Firefox: {
			Name: Firefox,
			Paths: map[string][]string{
				"windows": {`C:\Users\{user}\AppData\Roaming\Mozilla\Firefox\Profiles`},
				"darwin":  {`/Users/{user}/Library/Application Support/Firefox/Profiles`},
				"linux":   {`/home/{user}/.mozilla/firefox`},
			},
			FileNames:      []string{"places.sqlite"},
			ProfilePattern: `\w+.default([\w\-\_\.]+)?`,
			Tables: []TableMap{
				{
					Canonical: "urls",
					Query: `SELECT moz_places.id, moz_places.url, moz_places.title, moz_places.rev_host,
							moz_places.visit_count, moz_places.typed,
							(moz_places.last_visit_date/1000000.0)
						FROM moz_places, moz_historyvisits
						WHERE moz_places.id = moz_historyvisits.place_id
						  AND (moz_historyvisits.visit_date/1000000.0) >= ?
						  AND NOT REGEXP('^file:///', moz_places.url)`,
					Columns: []string{"id", "url", "title", "rev_host", "visit_count", "typed", "last_visit_date"},
				},
				{
					Canonical: "visits",
					Query: `SELECT moz_historyvisits.id, moz_historyvisits.place_id,
							(moz_historyvisits.visit_date/1000000.0),
							moz_historyvisits.visit_type, moz_historyvisits.from_visit
						FROM moz_historyvisits
						WHERE (moz_historyvisits.visit_date/1000000.0) >= ?`,
					Columns: []string{"id", "url_id", "visit_date", "visit_type", "referrer"},
				},
			},
		},

		// Safari has two historical schema variants. History.db is the
		// relational form covered by Tables; History.plist is the legacy
		// property-list form, detected by file name and handled by the
		// plist extractor.
		Safari: {
			Name: Safari,
			Paths: map[string][]string{
				"darwin": {`/Users/{user}/Library/Safari`},
			},
			FileNames:      []string{"History.db", "History.plist"},
			CopyBeforeOpen: true,
			Tables: []TableMap{
				{
					Canonical: "urls",
					Query: `SELECT history_items.id, history_items.url, history_items.visit_count
						FROM history_items, history_visits
						WHERE history_items.id = history_visits.history_item
						  AND (history_visits.visit_time + 978307200) >= ?
						  AND NOT REGEXP('^file:', history_items.url)`,
					Columns: []string{"id", "url", "visit_count"},
				},
				{
					Canonical: "visits",
					Query: `SELECT history_visits.id, history_visits.history_item,
							(history_visits.visit_time + 978307200)
						FROM history_visits
						WHERE (history_visits.visit_time + 978307200) >= ?`,
					Columns: []string{"id", "url_id", "visit_date"},
				},
			},
		},

		IE11: {
			Name: IE11,
			Paths: map[string][]string{
				"windows": {`C:\Users\{user}\AppData\Local\Microsoft\Windows\WebCache`},
			},
			FileNames: []string{"WebCacheV01.dat", "WebCacheV24.dat"},
		},
	}
}
