// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// efetch XML structures (PubmedArticleSet DTD, only the fields we use).
type articleSet struct {
	Articles []pubmedArticle     `xml:"PubmedArticle"`
	Books    []pubmedBookArticle `xml:"PubmedBookArticle"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

type correction struct {
	RefType string `xml:"RefType,attr"`
	PMID    string `xml:"PMID"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Journal struct {
				Title string `xml:"Title"`
				Issue struct {
					PubDate struct {
						Year        string `xml:"Year"`
						MedlineDate string `xml:"MedlineDate"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			Title    mixedText `xml:"ArticleTitle"`
			Abstract struct {
				Texts []abstractText `xml:"AbstractText"`
			} `xml:"Abstract"`
			PublicationTypes []string `xml:"PublicationTypeList>PublicationType"`
		} `xml:"Article"`
		Corrections []correction `xml:"CommentsCorrectionsList>CommentsCorrections"`
	} `xml:"MedlineCitation"`
	ArticleIDs []articleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

// pubmedBookArticle is a book or book chapter (NCBI Bookshelf). The book
// title stands in for the journal.
type pubmedBookArticle struct {
	Document struct {
		PMID string `xml:"PMID"`
		Book struct {
			Title   mixedText `xml:"BookTitle"`
			PubDate struct {
				Year        string `xml:"Year"`
				MedlineDate string `xml:"MedlineDate"`
			} `xml:"PubDate"`
		} `xml:"Book"`
		Title    mixedText `xml:"ArticleTitle"`
		Abstract struct {
			Texts []abstractText `xml:"AbstractText"`
		} `xml:"Abstract"`
		PublicationTypes []string     `xml:"PublicationType"`
		Corrections      []correction `xml:"CommentsCorrectionsList>CommentsCorrections"`
		ArticleIDs       []articleID  `xml:"ArticleIdList>ArticleId"`
	} `xml:"BookDocument"`
	ArticleIDs []articleID `xml:"PubmedBookData>ArticleIdList>ArticleId"`
}

type abstractText struct {
	Label string
	Text  string
}

// UnmarshalXML reads the Label attribute and the flattened text of an
// AbstractText element, which may contain inline markup.
func (a *abstractText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "Label" {
			a.Label = attr.Value
		}
	}
	var t mixedText
	if err := t.UnmarshalXML(d, start); err != nil {
		return err
	}
	a.Text = string(t)
	return nil
}

// mixedText is element text with any nested tags (<i>, <sup>) flattened.
type mixedText string

func (m *mixedText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	*m = mixedText(strings.Join(strings.Fields(b.String()), " "))
	return nil
}

// ParseArticleSet decodes an efetch PubmedArticleSet document. Journal
// articles come first, then book articles, each in document order.
func ParseArticleSet(data []byte) ([]types.RawRecord, error) {
	var set articleSet
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	records := make([]types.RawRecord, 0, len(set.Articles)+len(set.Books))
	for _, a := range set.Articles {
		c := a.Citation
		if strings.TrimSpace(c.PMID) == "" {
			continue
		}
		rec := types.RawRecord{
			ID:               strings.TrimSpace(c.PMID),
			Title:            string(c.Article.Title),
			Journal:          strings.TrimSpace(c.Article.Journal.Title),
			Year:             atoiYear(c.Article.Journal.Issue.PubDate.Year),
			MedlineDate:      strings.TrimSpace(c.Article.Journal.Issue.PubDate.MedlineDate),
			PublicationTypes: c.Article.PublicationTypes,
			Abstract:         segments(c.Article.Abstract.Texts),
			Corrections:      corrections(c.Corrections),
			DOI:              doi(a.ArticleIDs),
		}
		records = append(records, rec)
	}

	for _, b := range set.Books {
		d := b.Document
		if strings.TrimSpace(d.PMID) == "" {
			continue
		}
		title := string(d.Title)
		if title == "" {
			title = string(d.Book.Title)
		}
		rec := types.RawRecord{
			ID:               strings.TrimSpace(d.PMID),
			Title:            title,
			Journal:          string(d.Book.Title),
			Year:             atoiYear(d.Book.PubDate.Year),
			MedlineDate:      strings.TrimSpace(d.Book.PubDate.MedlineDate),
			PublicationTypes: d.PublicationTypes,
			Abstract:         segments(d.Abstract.Texts),
			Corrections:      corrections(d.Corrections),
			DOI:              doi(append(d.ArticleIDs, b.ArticleIDs...)),
		}
		records = append(records, rec)
	}
	return records, nil
}

func atoiYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}

func segments(texts []abstractText) []types.AbstractSegment {
	var out []types.AbstractSegment
	for _, t := range texts {
		if t.Text == "" {
			continue
		}
		out = append(out, types.AbstractSegment{Label: t.Label, Text: t.Text})
	}
	return out
}

func corrections(cs []correction) []types.Correction {
	var out []types.Correction
	for _, cc := range cs {
		out = append(out, types.Correction{RefType: cc.RefType, PMID: strings.TrimSpace(cc.PMID)})
	}
	return out
}

func doi(ids []articleID) string {
	for _, id := range ids {
		if strings.EqualFold(id.IDType, "doi") {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}
