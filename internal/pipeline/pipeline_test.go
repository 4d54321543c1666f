// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-papers/internal/output"
	"github.com/pdiddy/pubmed-papers/internal/pubmed"
	"github.com/pdiddy/pubmed-papers/internal/store"
	"github.com/pdiddy/pubmed-papers/internal/xmltree"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

const searchXML = `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult><Count>2</Count><RetMax>2</RetMax><RetStart>0</RetStart>
<IdList><Id>111</Id><Id>222</Id></IdList></eSearchResult>`

const detailXML = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">111</PMID>
    <Article PubModel="Print">
      <Journal><JournalIssue CitedMedium="Internet"><PubDate><Year>2020</Year></PubDate></JournalIssue></Journal>
      <ArticleTitle>Industry-led trial of a novel kinase inhibitor.</ArticleTitle>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y">
          <LastName>Smith</LastName><ForeName>John</ForeName><Initials>J</Initials>
          <AffiliationInfo><Affiliation>J. Smith, BigPharma Inc, j.smith@bigpharma.com, USA</Affiliation></AffiliationInfo>
        </Author>
      </AuthorList>
    </Article>
  </MedlineCitation>
</PubmedArticle>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">222</PMID>
    <Article PubModel="Print">
      <Journal><JournalIssue CitedMedium="Internet"><PubDate/></JournalIssue></Journal>
      <ArticleTitle>An academic cohort study.</ArticleTitle>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y">
          <LastName>Doe</LastName><ForeName>Jane</ForeName>
          <AffiliationInfo><Affiliation>State University, Boston, MA</Affiliation></AffiliationInfo>
        </Author>
      </AuthorList>
    </Article>
  </MedlineCitation>
</PubmedArticle>
</PubmedArticleSet>`

var wantPapers = []types.Paper{
	{
		PubmedID:           "111",
		Title:              "Industry-led trial of a novel kinase inhibitor.",
		PublicationDate:    "2020",
		NonAcademicAuthor:  "John Smith",
		CorrespondingEmail: "j.smith@bigpharma.com",
		Affiliations:       "J. Smith, BigPharma Inc, j.smith@bigpharma.com, USA",
	},
	{
		PubmedID:           "222",
		Title:              "An academic cohort study.",
		PublicationDate:    "Not available",
		NonAcademicAuthor:  "Unknown",
		CorrespondingEmail: "Unknown",
		Affiliations:       "State University, Boston, MA",
	},
}

// newPubMedServer serves esearch and efetch and records the efetch id list.
func newPubMedServer(t *testing.T, gotIDs *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			assert.Equal(t, "cancer treatment", r.URL.Query().Get("term"))
			assert.Equal(t, "2", r.URL.Query().Get("retmax"))
			fmt.Fprint(w, searchXML)
		case "/efetch.fcgi":
			*gotIDs = r.URL.Query().Get("id")
			fmt.Fprint(w, detailXML)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(ts *httptest.Server) *pubmed.Client {
	cfg := types.DefaultPubMedConfig()
	cfg.BaseURL = ts.URL
	return pubmed.NewClient(cfg, ts.Client(), nil)
}

func fixedNow() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestRun_EndToEndConsole(t *testing.T) {
	var gotIDs string
	ts := newPubMedServer(t, &gotIDs)

	var stdout bytes.Buffer
	err := Run(context.Background(), newClient(ts), Options{Term: "cancer treatment", MaxResults: 2}, &stdout, nil)
	require.NoError(t, err)

	assert.Equal(t, "111,222", gotIDs)
	want := output.Line(wantPapers[0]) + "\n" + output.Line(wantPapers[1]) + "\n"
	assert.Equal(t, want, stdout.String())
}

func TestRun_EndToEndCSV(t *testing.T) {
	var gotIDs string
	ts := newPubMedServer(t, &gotIDs)
	path := filepath.Join(t.TempDir(), "out.csv")

	var stdout bytes.Buffer
	opts := Options{
		Term:       "cancer treatment",
		MaxResults: 2,
		Output:     types.OutputConfig{File: path, Format: types.FormatCSV},
		Now:        fixedNow,
	}
	require.NoError(t, Run(context.Background(), newClient(ts), opts, &stdout, nil))

	assert.Equal(t, "Saved 2 papers to "+path+"\n", stdout.String())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := output.ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, wantPapers, got)
}

func TestRun_RecordsToDatabase(t *testing.T) {
	var gotIDs string
	ts := newPubMedServer(t, &gotIDs)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	var stdout bytes.Buffer
	opts := Options{
		Term:       "cancer treatment",
		MaxResults: 2,
		Output:     types.OutputConfig{Database: dbPath},
		Now:        fixedNow,
	}
	require.NoError(t, Run(context.Background(), newClient(ts), opts, &stdout, nil))
	assert.Contains(t, stdout.String(), "Saved 2 papers to "+dbPath)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Papers(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, wantPapers, got)
}

// --- stub source ---

type stubSource struct {
	ids       []string
	searchErr error
	root      *xmltree.Node
	fetchErr  error
	fetched   bool
}

func (s *stubSource) Search(context.Context, string, int) ([]string, error) {
	return s.ids, s.searchErr
}

func (s *stubSource) FetchDetails(context.Context, []string) (*xmltree.Node, error) {
	s.fetched = true
	return s.root, s.fetchErr
}

func TestRun_NoPapersFound(t *testing.T) {
	src := &stubSource{ids: []string{}}

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), src, Options{Term: "x", MaxResults: 10}, &stdout, nil))

	assert.Equal(t, MsgNoPapers+"\n", stdout.String())
	assert.False(t, src.fetched, "details must not be fetched for an empty identifier list")
}

func TestRun_NoRowsExtracted(t *testing.T) {
	root, err := xmltree.Parse(strings.NewReader(`<PubmedArticleSet/>`))
	require.NoError(t, err)
	src := &stubSource{ids: []string{"1"}, root: root}

	path := filepath.Join(t.TempDir(), "out.csv")
	var stdout bytes.Buffer
	opts := Options{Term: "x", MaxResults: 10, Output: types.OutputConfig{File: path}}
	require.NoError(t, Run(context.Background(), src, opts, &stdout, nil))

	assert.Equal(t, MsgNoIndustryPapers+"\n", stdout.String())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file is written when there are no rows")
}

func TestRun_ErrorsWriteNothing(t *testing.T) {
	rse := &pubmed.RemoteServiceError{Endpoint: "efetch.fcgi", StatusCode: 500, Status: "500 Internal Server Error"}

	tests := []struct {
		name string
		src  *stubSource
	}{
		{"search fails", &stubSource{searchErr: &pubmed.RemoteServiceError{Endpoint: "esearch.fcgi", StatusCode: 502}}},
		{"fetch fails", &stubSource{ids: []string{"1"}, fetchErr: rse}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			var stdout bytes.Buffer
			opts := Options{Term: "x", MaxResults: 10, Output: types.OutputConfig{File: path}}

			err := Run(context.Background(), tt.src, opts, &stdout, nil)
			require.Error(t, err)

			var target *pubmed.RemoteServiceError
			assert.True(t, errors.As(err, &target))
			assert.Empty(t, stdout.String())
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
