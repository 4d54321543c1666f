// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-papers pipeline.
package types

// Fallback values used when a record lacks the corresponding data.
const (
	NotApplicable = "N/A"
	Unknown       = "Unknown"
	NotAvailable  = "Not available"
)

// Column names in output order. CSV headers and JSON keys use these verbatim.
const (
	ColumnPubmedID     = "PubmedID"
	ColumnTitle        = "Title"
	ColumnPubDate      = "Publication Date"
	ColumnAuthor       = "Non-academic Author"
	ColumnEmail        = "Corresponding Author Email"
	ColumnAffiliations = "Company Affiliation(s)"
)

// Columns lists the six output columns in their fixed order.
var Columns = []string{
	ColumnPubmedID,
	ColumnTitle,
	ColumnPubDate,
	ColumnAuthor,
	ColumnEmail,
	ColumnAffiliations,
}

// Paper is one extracted row: a PubMed record reduced to the fields needed
// to spot industry-affiliated authors. Every field is always populated,
// falling back to NotApplicable, Unknown, or NotAvailable.
type Paper struct {
	// PubmedID is the record's PMID.
	PubmedID string `json:"PubmedID" yaml:"pubmed_id"`

	// Title is the article title.
	Title string `json:"Title" yaml:"title"`

	// PublicationDate is "day month year" with absent parts collapsed.
	PublicationDate string `json:"Publication Date" yaml:"publication_date"`

	// NonAcademicAuthor is the first author whose affiliation carries an "@".
	NonAcademicAuthor string `json:"Non-academic Author" yaml:"non_academic_author"`

	// CorrespondingEmail is the email-like token found in that affiliation.
	CorrespondingEmail string `json:"Corresponding Author Email" yaml:"corresponding_author_email"`

	// Affiliations is every affiliation string in the record, joined by "; ".
	Affiliations string `json:"Company Affiliation(s)" yaml:"company_affiliations"`
}

// Record returns the row's values in Columns order.
func (p Paper) Record() []string {
	return []string{
		p.PubmedID,
		p.Title,
		p.PublicationDate,
		p.NonAcademicAuthor,
		p.CorrespondingEmail,
		p.Affiliations,
	}
}

// PaperFromRecord is the inverse of Record. It returns false when the record
// does not have exactly six fields.
func PaperFromRecord(rec []string) (Paper, bool) {
	if len(rec) != len(Columns) {
		return Paper{}, false
	}
	return Paper{
		PubmedID:           rec[0],
		Title:              rec[1],
		PublicationDate:    rec[2],
		NonAcademicAuthor:  rec[3],
		CorrespondingEmail: rec[4],
		Affiliations:       rec[5],
	}, true
}
