// Package gramps reads and writes Gramps XML interchange documents.
//
// The wire format is a <database> root with entity collections, everything
// addressed by opaque handle strings. Parsing is multi-stage within a single
// pass: entities referenced by handle (notes, repositories, places, sources,
// citations, events) are read before the entities that reference them
// (persons, families), so embedded lookups resolve without a second
// traversal.
package gramps

import "encoding/xml"

const xmlns = "http://gramps-project.org/xml/1.7.1/"

type xmlDatabase struct {
	XMLName xml.Name `xml:"database"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`

	Header *xmlHeader `xml:"header"`

	Notes        []xmlNote       `xml:"notes>note"`
	Repositories []xmlRepository `xml:"repositories>repository"`
	Places       []xmlPlaceObj   `xml:"places>placeobj"`
	Sources      []xmlSource     `xml:"sources>source"`
	Citations    []xmlCitation   `xml:"citations>citation"`
	Objects      []xmlObject     `xml:"objects>object"`
	Events       []xmlEvent      `xml:"events>event"`
	People       []xmlPerson     `xml:"people>person"`
	Families     []xmlFamily     `xml:"families>family"`
}

type xmlHeader struct {
	Created    *xmlCreated `xml:"created"`
	Researcher string      `xml:"researcher,omitempty"`
}

type xmlCreated struct {
	Date    string `xml:"date,attr"`
	Version string `xml:"version,attr"`
}

// xmlHlink is the universal handle-reference element.
type xmlHlink struct {
	HLink string `xml:"hlink,attr"`
}

type xmlPerson struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`

	Gender    string     `xml:"gender"`
	Name      *xmlName   `xml:"name"`
	EventRefs []xmlHlink `xml:"eventref"`
	ChildOf   []xmlHlink `xml:"childof"`
	ParentIn  []xmlHlink `xml:"parentin"`
}

type xmlName struct {
	Type    string `xml:"type,attr,omitempty"`
	First   string `xml:"first,omitempty"`
	Surname string `xml:"surname,omitempty"`
}

type xmlFamily struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`

	Rel       *xmlRelType   `xml:"rel"`
	Father    *xmlHlink     `xml:"father"`
	Mother    *xmlHlink     `xml:"mother"`
	EventRefs []xmlHlink    `xml:"eventref"`
	ChildRefs []xmlChildRef `xml:"childref"`
}

type xmlRelType struct {
	Type string `xml:"type,attr"`
}

// xmlChildRef carries the per-side relationship qualifiers. An absent
// attribute means Birth.
type xmlChildRef struct {
	HLink string `xml:"hlink,attr"`
	FRel  string `xml:"frel,attr,omitempty"`
	MRel  string `xml:"mrel,attr,omitempty"`
}

type xmlEvent struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`

	Type        string      `xml:"type"`
	DateVal     *xmlDateVal `xml:"dateval"`
	DateStr     *xmlDateStr `xml:"datestr"`
	Place       *xmlHlink   `xml:"place"`
	Description string      `xml:"description,omitempty"`
}

type xmlDateVal struct {
	Val string `xml:"val,attr"`
}

type xmlDateStr struct {
	Val string `xml:"val,attr"`
}

type xmlPlaceObj struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`
	Type   string `xml:"type,attr,omitempty"`

	Names     []xmlPName `xml:"pname"`
	PlaceRefs []xmlHlink `xml:"placeref"`
}

type xmlPName struct {
	Value string `xml:"value,attr"`
}

type xmlCitation struct {
	Handle     string    `xml:"handle,attr"`
	ID         string    `xml:"id,attr,omitempty"`
	Confidence int       `xml:"confidence"`
	SourceRef  *xmlHlink `xml:"sourceref"`
}

type xmlSource struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`
	Title  string `xml:"stitle,omitempty"`
	Author string `xml:"sauthor,omitempty"`
}

type xmlNote struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`
	Type   string `xml:"type,attr,omitempty"`
	Text   string `xml:"text"`
}

type xmlRepository struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr,omitempty"`
	Name   string `xml:"rname,omitempty"`
}

type xmlObject struct {
	Handle string         `xml:"handle,attr"`
	ID     string         `xml:"id,attr,omitempty"`
	File   *xmlObjectFile `xml:"file"`
}

type xmlObjectFile struct {
	Src  string `xml:"src,attr"`
	Mime string `xml:"mime,attr,omitempty"`
}
