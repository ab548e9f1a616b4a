package arxiv

// feed is the subset of the Atom feed returned by the export API.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Authors    []author   `xml:"author"`
	Links      []link     `xml:"link"`
	Categories []category `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// fields flattens an entry into the feed-shaped record the normaliser reads.
func (e entry) fields() map[string]any {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	links := make([]map[string]any, 0, len(e.Links))
	for _, l := range e.Links {
		links = append(links, map[string]any{
			"href":  l.Href,
			"rel":   l.Rel,
			"title": l.Title,
			"type":  l.Type,
		})
	}

	categories := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		categories = append(categories, c.Term)
	}

	return map[string]any{
		"id":         e.ID,
		"title":      e.Title,
		"summary":    e.Summary,
		"published":  e.Published,
		"updated":    e.Updated,
		"authors":    authors,
		"links":      links,
		"categories": categories,
	}
}
