// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reduces an efetch PubmedArticleSet to one row per article,
// flagging the first author whose affiliation carries an email address.
package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/pubmed-papers/internal/xmltree"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Element paths within a PubmedArticle.
const (
	articlePath     = ".//PubmedArticle"
	titlePath       = ".//ArticleTitle"
	pmidPath        = ".//PMID"
	yearPath        = ".//PubDate/Year"
	monthPath       = ".//PubDate/Month"
	dayPath         = ".//PubDate/Day"
	affiliationPath = ".//AffiliationInfo/Affiliation"
	authorPath      = ".//Author"
	lastNamePath    = "LastName"
	foreNamePath    = "ForeName"
)

// emailPattern matches a run of non-space characters around an "@",
// bounded by whitespace on both sides. Callers pad the input with spaces so
// tokens at either end still match.
var emailPattern = regexp.MustCompile(`\s([^ ]+@[^ ]+)\s`)

// emailTrailing is stripped from a matched token; affiliations routinely
// end the address with list punctuation ("x@y.com, USA").
const emailTrailing = ".,;:"

// Papers returns one row per PubmedArticle found anywhere under root, in
// document order. A document with no articles yields an empty slice.
func Papers(root *xmltree.Node) []types.Paper {
	papers := []types.Paper{}
	if root == nil {
		return papers
	}
	for _, article := range root.FindAll(articlePath) {
		papers = append(papers, paperFrom(article))
	}
	return papers
}

func paperFrom(article *xmltree.Node) types.Paper {
	author, email := corresponding(article)
	return types.Paper{
		PubmedID:           article.FindText(pmidPath, types.NotApplicable),
		Title:              article.FindText(titlePath, types.NotApplicable),
		PublicationDate:    publicationDate(article),
		NonAcademicAuthor:  author,
		CorrespondingEmail: email,
		Affiliations:       strings.Join(affiliations(article), "; "),
	}
}

// publicationDate renders PubDate as "day month year". Absent parts are
// empty, so only the outer edges are trimmed: a missing month leaves a
// double space between day and year.
func publicationDate(article *xmltree.Node) string {
	year := article.FindText(yearPath, "")
	month := article.FindText(monthPath, "")
	day := article.FindText(dayPath, "")
	if year == "" && month == "" && day == "" {
		return types.NotAvailable
	}
	return strings.TrimSpace(day + " " + month + " " + year)
}

// affiliations collects every non-empty affiliation under the article,
// author-scoped ones included.
func affiliations(article *xmltree.Node) []string {
	var out []string
	for _, aff := range article.FindAll(affiliationPath) {
		if aff.Text != "" {
			out = append(out, aff.Text)
		}
	}
	return out
}

// corresponding walks authors in order and returns the display name and
// email of the first one with an "@" in an affiliation. The first match
// across the whole article wins.
func corresponding(article *xmltree.Node) (author, email string) {
	for _, a := range article.FindAll(authorPath) {
		for _, aff := range a.FindAll(affiliationPath) {
			text := strings.TrimSpace(aff.Text)
			if strings.Contains(text, "@") {
				return displayName(a), Email(text)
			}
		}
	}
	return types.Unknown, types.Unknown
}

// displayName is "ForeName LastName", trimmed. A missing LastName element
// reads as "Unknown"; a missing ForeName as empty.
func displayName(author *xmltree.Node) string {
	last := author.FindText(lastNamePath, types.Unknown)
	fore := author.FindText(foreNamePath, "")
	return strings.TrimSpace(fore + " " + last)
}

// Email pulls the email-like token out of an affiliation string. When no
// whitespace-bounded token contains "@", the whole trimmed affiliation is
// returned.
func Email(affiliation string) string {
	affiliation = strings.TrimSpace(affiliation)
	m := emailPattern.FindStringSubmatch(" " + affiliation + " ")
	if m == nil {
		return affiliation
	}
	return strings.TrimRight(strings.TrimSpace(m[1]), emailTrailing)
}
