package extractors

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBodyPath = "word/document.xml"

var errNoDocumentBody = errors.New("word/document.xml not found")

// WordExtractor extracts body paragraphs followed by table rows from
// Office Open XML word documents.
type WordExtractor struct{}

func (e *WordExtractor) Extract(content []byte, _ string) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	body, err := readZipEntry(reader, docxBodyPath)
	if err != nil {
		return "", err
	}

	var doc docxDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", err
	}

	var parts []string
	for _, p := range doc.Body.Paragraphs {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				if text := cell.text(); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

func (e *WordExtractor) Name() string {
	return "docx"
}

func readZipEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errNoDocumentBody
}

// docxDocument represents the parts of word/document.xml we read.
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
		Tables     []docxTable     `xml:"tbl"`
	} `xml:"body"`
}

type docxTable struct {
	Rows []struct {
		Cells []docxCell `xml:"tc"`
	} `xml:"tr"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (c docxCell) text() string {
	lines := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		lines[i] = p.Text
	}
	return strings.Join(lines, "\n")
}

// docxParagraph collects the text of every run in document order,
// including runs nested in hyperlinks and field results.
type docxParagraph struct {
	Text string
}

func (p *docxParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	inText := false
	depth := 1

	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	p.Text = b.String()
	return nil
}
