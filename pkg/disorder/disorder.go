// Package disorder reads the Orphanet functional consequences export: the
// disorders, their disability associations and the coded frequency,
// temporality and severity of each association.
package disorder

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/xmltree"
)

// CodedReference is an Orphanet concept cited by its reference number.
type CodedReference struct {
	OrphaNumber string
	Name        string
}

// Disability is the disability an association refers to.
type Disability struct {
	ID   string
	Name string
}

// Association links a disorder to one disability.
type Association struct {
	Disability  Disability
	Frequency   CodedReference
	Temporality CodedReference
	Severity    CodedReference

	// LossOfAbility is the raw y/n/u code, "" when absent.
	LossOfAbility string
}

// Disorder is one DisorderDisabilityRelevance record. Name is the English
// name, "" when the record has none.
type Disorder struct {
	OrphaCode          string
	Name               string
	Group              CodedReference
	Associations       []Association
	SpecificManagement string
}

// --- Orphanet XML structures ---

type xmlRelevance struct {
	Disorder           *xmlDisorder `xml:"Disorder"`
	SpecificManagement string       `xml:"SpecificManagement"`
}

type xmlDisorder struct {
	OrphaCode    string           `xml:"OrphaCode"`
	Names        []xmlName        `xml:"Name"`
	Group        xmlCoded         `xml:"DisorderGroup"`
	Associations []xmlAssociation `xml:"DisabilityDisorderAssociationList>DisabilityDisorderAssociation"`
}

type xmlName struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type xmlCoded struct {
	OrphaNumber string    `xml:"OrphaNumber"`
	Names       []xmlName `xml:"Name"`
}

type xmlDisability struct {
	ID    string    `xml:"id,attr"`
	Names []xmlName `xml:"Name"`
}

type xmlAssociation struct {
	Disability    *xmlDisability `xml:"Disability"`
	Frequency     xmlCoded       `xml:"FrequenceDisability"`
	Temporality   xmlCoded       `xml:"TemporalityDisability"`
	Severity      xmlCoded       `xml:"SeverityDisability"`
	LossOfAbility string         `xml:"LossOfAbility"`
}

// englishName returns the first name tagged lang="en".
func englishName(names []xmlName) string {
	for _, name := range names {
		if name.Lang == "en" {
			return strings.TrimSpace(name.Text)
		}
	}
	return ""
}

func (coded xmlCoded) reference() CodedReference {
	return CodedReference{
		OrphaNumber: strings.TrimSpace(coded.OrphaNumber),
		Name:        englishName(coded.Names),
	}
}

func (relevance xmlRelevance) toDisorder() Disorder {
	source := relevance.Disorder
	record := Disorder{
		OrphaCode:          strings.TrimSpace(source.OrphaCode),
		Name:               englishName(source.Names),
		Group:              source.Group.reference(),
		SpecificManagement: strings.TrimSpace(relevance.SpecificManagement),
	}

	for _, association := range source.Associations {
		converted := Association{
			Frequency:     association.Frequency.reference(),
			Temporality:   association.Temporality.reference(),
			Severity:      association.Severity.reference(),
			LossOfAbility: strings.TrimSpace(association.LossOfAbility),
		}
		if association.Disability != nil {
			converted.Disability = Disability{
				ID:   strings.TrimSpace(association.Disability.ID),
				Name: englishName(association.Disability.Names),
			}
		}
		record.Associations = append(record.Associations, converted)
	}

	return record
}

// Decode returns every DisorderDisabilityRelevance record with a Disorder
// child, wherever it appears in the document, in document order.
func Decode(reader io.Reader) ([]Disorder, error) {
	decoder := xmltree.NewDecoder(reader)

	var disorders []Disorder
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse disorder XML: %w", err)
		}

		switch typed := token.(type) {
		case xml.Directive:
			xmltree.DeclareEntities(decoder, typed)
		case xml.StartElement:
			if typed.Name.Local != "DisorderDisabilityRelevance" || typed.Name.Space != "" {
				continue
			}

			var relevance xmlRelevance
			if err := decoder.DecodeElement(&relevance, &typed); err != nil {
				return nil, fmt.Errorf("failed to decode DisorderDisabilityRelevance: %w", err)
			}
			if relevance.Disorder != nil {
				disorders = append(disorders, relevance.toDisorder())
			}
		}
	}

	return disorders, nil
}

// LoadFile decodes the export at path. A missing file yields an error
// wrapping config.ErrInputNotFound.
func LoadFile(path string) ([]Disorder, error) {
	if err := config.RequireFile(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	disorders, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return disorders, nil
}
