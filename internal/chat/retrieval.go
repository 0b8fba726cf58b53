package chat

import (
	"fmt"
	"strings"
)

// SourceLegislation tags citations drawn from the built-in legislation corpus.
const SourceLegislation = "legislation"

// MaxCitations caps how many sources back a single answer.
const MaxCitations = 3

// Retriever finds sources relevant to a question.
type Retriever interface {
	Retrieve(query string) []Citation
}

// concept maps a question fragment onto the terms that identify matching
// sources. Concepts are checked in declaration order.
type concept struct {
	fragment string
	terms    []string
}

var legislationConcepts = []concept{
	{"uppsäg", []string{"uppsägning", "las"}},
	{"avsked", []string{"avsked", "las"}},
	{"semester", []string{"semester"}},
	{"ledig", []string{"semester", "ledig"}},
	{"saklig", []string{"saklig grund", "las"}},
}

var legislationCorpus = []Citation{
	{
		ID:         "las-7",
		Title:      "LAS § 7 - Saklig grund",
		URL:        "https://lagen.nu/1982:80#P7S1",
		Snippet:    "Uppsägning från arbetsgivarens sida ska grundas på saklig grund. Saklig grund kan vara arbetsbrist eller förhållanden som hänför sig till arbetstagaren personligen.",
		SourceType: SourceLegislation,
	},
	{
		ID:         "las-11",
		Title:      "LAS § 11 - Uppsägningstid",
		URL:        "https://lagen.nu/1982:80#P11S1",
		Snippet:    "För både arbetsgivare och arbetstagare gäller en minsta uppsägningstid av en månad. Arbetstagaren har rätt till en uppsägningstid av två månader om den sammanlagda anställningstiden hos arbetsgivaren är minst två år men kortare än fyra år, tre månader om anställningstiden är minst fyra år men kortare än sex år, fyra månader om anställningstiden är minst sex år men kortare än åtta år, fem månader om anställningstiden är minst åtta år men kortare än tio år, och sex månader om anställningstiden är minst tio år.",
		SourceType: SourceLegislation,
	},
	{
		ID:         "sem-1",
		Title:      "Semesterlagen § 1 - Semesterrätt",
		URL:        "https://lagen.nu/1977:480#P1S1",
		Snippet:    "Arbetstagare har rätt till semesterförmåner enligt denna lag. Semesterförmånerna är semesterledighet, semesterlön och semesterersättning.",
		SourceType: SourceLegislation,
	},
	{
		ID:         "sem-4",
		Title:      "Semesterlagen § 4 - Semesterdagar",
		URL:        "https://lagen.nu/1977:480#P4S1",
		Snippet:    "Arbetstagare har rätt till tjugofem semesterdagar varje semesterår.",
		SourceType: SourceLegislation,
	},
}

type keywordRetriever struct {
	docs     []Citation
	concepts []concept
	limit    int
}

// NewLegislationRetriever returns a keyword retriever over the built-in
// Swedish employment law excerpts.
func NewLegislationRetriever() Retriever {
	return &keywordRetriever{
		docs:     legislationCorpus,
		concepts: legislationConcepts,
		limit:    MaxCitations,
	}
}

// Retrieve gathers every document matching a concept named in the query.
// Without a concept hit it falls back to a plain substring search over
// titles and snippets.
func (k *keywordRetriever) Retrieve(query string) []Citation {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []Citation
	seen := make(map[string]bool)
	add := func(doc Citation) {
		if !seen[doc.ID] {
			seen[doc.ID] = true
			results = append(results, doc)
		}
	}

	for _, c := range k.concepts {
		if !strings.Contains(q, c.fragment) {
			continue
		}
		for _, doc := range k.docs {
			if matchesAny(doc, c.terms...) {
				add(doc)
			}
		}
	}

	if len(results) == 0 {
		for _, doc := range k.docs {
			if matchesAny(doc, q) {
				add(doc)
			}
		}
	}

	if len(results) > k.limit {
		results = results[:k.limit]
	}
	return results
}

func matchesAny(doc Citation, terms ...string) bool {
	title := strings.ToLower(doc.Title)
	snippet := strings.ToLower(doc.Snippet)
	for _, t := range terms {
		if strings.Contains(title, t) || strings.Contains(snippet, t) {
			return true
		}
	}
	return false
}

// contextMessage renders retrieved sources as a system message the model
// should ground its answer in.
func contextMessage(sources []Citation) wireMessage {
	var b strings.Builder
	b.WriteString("Answer using the following legislation where relevant and cite it by title.\n")
	for _, s := range sources {
		fmt.Fprintf(&b, "\n[%s] %s (%s)\n%s\n", s.ID, s.Title, s.URL, s.Snippet)
	}
	return wireMessage{Role: "system", Content: b.String()}
}
