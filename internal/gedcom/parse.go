// Package gedcom reads and writes GEDCOM 5.5.1 interchange files.
//
// GEDCOM is a line-oriented format: each line is a level number, an
// optional @-delimited cross-reference ID, a tag, and a value. Records are
// keyed by cross-reference ID and resolved with the same two-pass contract
// as the Gramps codec: individuals are materialized first, then family
// records link them.
package gedcom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
)

// Issue is one structural problem found during parsing.
type Issue struct {
	Line    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Diagnostics accumulates every problem found in a file. Parsing never
// stops at the first error.
type Diagnostics struct {
	Errors   []Issue
	Warnings []Issue
}

// Valid reports whether the file parsed without hard errors.
func (d *Diagnostics) Valid() bool {
	return len(d.Errors) == 0
}

func (d *Diagnostics) errorf(line int, format string, args ...interface{}) {
	d.Errors = append(d.Errors, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) warnf(line int, format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

// FamilyChildLink is an individual's FAMC link with its pedigree.
type FamilyChildLink struct {
	FamilyXRef string
	Pedigree   string // "adopted", "birth", "" when absent
}

// Individual is a parsed INDI record.
type Individual struct {
	XRef string

	Name    string // display form, slashes stripped
	Given   string
	Surname string
	Sex     string

	BirthDate   string // original GEDCOM date grammar
	BirthPlace  string
	DeathDate   string
	DeathPlace  string
	BurialPlace string
	Occupation  string

	FamilyChild  []FamilyChildLink
	FamilySpouse []string
}

// ChildLine is one CHIL entry of a family with its per-side qualifiers
// from the _FREL/_MREL extension tags.
type ChildLine struct {
	XRef string
	FRel model.ParentalRelation
	MRel model.ParentalRelation
}

// FamilyRecord is a parsed FAM record.
type FamilyRecord struct {
	XRef    string
	Husband string
	Wife    string

	Children []ChildLine

	MarriageDate  string
	MarriagePlace string
}

// Document is a fully parsed GEDCOM file.
type Document struct {
	Individuals map[string]*Individual
	IndiOrder   []string
	Families    []FamilyRecord
}

var lineRe = regexp.MustCompile(`^(\d+)\s+(@[^@]+@\s+)?(\w+)(\s(.*))?$`)

type line struct {
	num   int // 1-based source line
	level int
	xref  string
	tag   string
	value string
}

// Parse reads a GEDCOM file. A file with no level-0 records at all is a
// hard failure returned as error; every other problem is accumulated in
// the diagnostics.
func Parse(data []byte) (*Document, *Diagnostics, error) {
	diags := &Diagnostics{}
	lines := splitLines(data, diags)

	records := false
	for _, l := range lines {
		if l.level == 0 {
			records = true
			break
		}
	}
	if !records {
		return nil, nil, fmt.Errorf("not a gedcom file: no records found")
	}

	doc := &Document{Individuals: make(map[string]*Individual)}

	sawTrailer := false
	for i := 0; i < len(lines); {
		l := lines[i]
		if l.level != 0 {
			// Orphan sub-line outside any record.
			diags.warnf(l.num, "unexpected level %d line outside a record", l.level)
			i++
			continue
		}

		// Collect the record's subordinate lines.
		end := i + 1
		for end < len(lines) && lines[end].level > 0 {
			end++
		}
		sub := lines[i+1 : end]

		switch l.tag {
		case "INDI":
			parseIndividual(doc, diags, l, sub)
		case "FAM":
			parseFamily(doc, diags, l, sub)
		case "TRLR":
			sawTrailer = true
		case "HEAD", "SUBM", "SOUR", "NOTE", "OBJE", "REPO":
			// Recognized but not consumed.
		default:
			diags.warnf(l.num, "unknown record tag %s, skipped", l.tag)
		}
		i = end
	}

	if !sawTrailer {
		diags.warnf(0, "missing TRLR record")
	}

	return doc, diags, nil
}

func splitLines(data []byte, diags *Diagnostics) []line {
	var out []line
	for i, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimRight(raw, "\r")
		raw = strings.TrimPrefix(raw, "\uFEFF")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		m := lineRe.FindStringSubmatch(raw)
		if m == nil {
			diags.warnf(i+1, "malformed line %q", truncate(raw, 40))
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			diags.warnf(i+1, "bad level in %q", truncate(raw, 40))
			continue
		}
		out = append(out, line{
			num:   i + 1,
			level: level,
			xref:  strings.TrimSpace(m[2]),
			tag:   m[3],
			value: m[5],
		})
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func parseIndividual(doc *Document, diags *Diagnostics, head line, sub []line) {
	if head.xref == "" {
		diags.errorf(head.num, "INDI record missing cross-reference ID")
		return
	}
	if _, dup := doc.Individuals[head.xref]; dup {
		diags.errorf(head.num, "duplicate individual %s", head.xref)
		return
	}

	ind := &Individual{XRef: head.xref}

	event := "" // BIRT, DEAT or BURI context for DATE/PLAC lines
	var famc *FamilyChildLink

	for _, l := range sub {
		if l.level == 1 {
			event = ""
			famc = nil
		}
		switch l.tag {
		case "NAME":
			if l.level == 1 && ind.Name == "" {
				ind.Given, ind.Surname = splitGedcomName(l.value)
				ind.Name = strings.TrimSpace(strings.TrimSpace(ind.Given) + " " + ind.Surname)
			}
		case "SEX":
			if l.level == 1 {
				ind.Sex = strings.TrimSpace(l.value)
			}
		case "BIRT", "DEAT", "BURI":
			if l.level == 1 {
				event = l.tag
			}
		case "OCCU":
			if l.level == 1 {
				ind.Occupation = l.value
			}
		case "DATE":
			switch event {
			case "BIRT":
				ind.BirthDate = l.value
			case "DEAT":
				ind.DeathDate = l.value
			}
		case "PLAC":
			switch event {
			case "BIRT":
				ind.BirthPlace = l.value
			case "DEAT":
				ind.DeathPlace = l.value
			case "BURI":
				ind.BurialPlace = l.value
			}
		case "FAMC":
			if l.level == 1 {
				ind.FamilyChild = append(ind.FamilyChild, FamilyChildLink{FamilyXRef: l.value})
				famc = &ind.FamilyChild[len(ind.FamilyChild)-1]
			}
		case "PEDI":
			if famc != nil {
				famc.Pedigree = strings.ToLower(strings.TrimSpace(l.value))
			}
		case "FAMS":
			if l.level == 1 {
				ind.FamilySpouse = append(ind.FamilySpouse, l.value)
			}
		}
	}

	if ind.Sex == "" {
		diags.warnf(head.num, "individual %s has no sex", head.xref)
	}

	doc.Individuals[head.xref] = ind
	doc.IndiOrder = append(doc.IndiOrder, head.xref)
}

func parseFamily(doc *Document, diags *Diagnostics, head line, sub []line) {
	if head.xref == "" {
		diags.errorf(head.num, "FAM record missing cross-reference ID")
		return
	}

	fam := FamilyRecord{XRef: head.xref}

	event := ""
	var child *ChildLine

	for _, l := range sub {
		if l.level == 1 {
			event = ""
			child = nil
		}
		switch l.tag {
		case "HUSB":
			if l.level == 1 {
				fam.Husband = l.value
			}
		case "WIFE":
			if l.level == 1 {
				fam.Wife = l.value
			}
		case "CHIL":
			if l.level == 1 {
				fam.Children = append(fam.Children, ChildLine{
					XRef: l.value,
					FRel: model.RelationBirth,
					MRel: model.RelationBirth,
				})
				child = &fam.Children[len(fam.Children)-1]
			}
		case "_FREL":
			if child != nil {
				child.FRel = parseRelTag(l.value)
			}
		case "_MREL":
			if child != nil {
				child.MRel = parseRelTag(l.value)
			}
		case "MARR":
			if l.level == 1 {
				event = "MARR"
			}
		case "DATE":
			if event == "MARR" {
				fam.MarriageDate = l.value
			}
		case "PLAC":
			if event == "MARR" {
				fam.MarriagePlace = l.value
			}
		}
	}

	doc.Families = append(doc.Families, fam)
}

// parseRelTag maps a _FREL/_MREL value. "Natural" is the common synonym
// for a birth relationship.
func parseRelTag(s string) model.ParentalRelation {
	if strings.EqualFold(strings.TrimSpace(s), "natural") {
		return model.RelationBirth
	}
	return model.ParseParentalRelation(strings.TrimSpace(s))
}

// splitGedcomName splits "John /Smith/" into given and surname parts.
func splitGedcomName(s string) (given, surname string) {
	start := strings.Index(s, "/")
	if start < 0 {
		return strings.TrimSpace(s), ""
	}
	end := strings.Index(s[start+1:], "/")
	if end < 0 {
		return strings.TrimSpace(strings.ReplaceAll(s, "/", " ")), ""
	}
	surname = s[start+1 : start+1+end]
	given = strings.TrimSpace(s[:start] + s[start+1+end+1:])
	return given, surname
}
