package word

import (
	"archive/zip"
	"bytes"
)

// Placeholders understood by the report template
const (
	PlaceholderTitle      = "{{Title}}"
	PlaceholderDate       = "{{Date}}"
	PlaceholderConvention = "{{Convention}}"
	PlaceholderEndpoints  = "{{TotalEndpoints}}"
	PlaceholderContent    = "{{Content}}"
)

var templateParts = []struct {
	Name string
	Body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// Required by the docx reader even when empty
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/><w:sz w:val="40"/></w:rPr><w:t>` + PlaceholderTitle + `</w:t></w:r></w:p>
<w:p><w:r><w:t>Date: ` + PlaceholderDate + `</w:t></w:r></w:p>
<w:p><w:r><w:t>Convention: ` + PlaceholderConvention + `</w:t></w:r></w:p>
<w:p><w:r><w:t>Total Endpoints: ` + PlaceholderEndpoints + `</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/></w:rPr><w:t xml:space="preserve">` + PlaceholderContent + `</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// Template returns the minimal report template as .docx bytes
func Template() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range templateParts {
		f, err := w.Create(part.Name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.Body)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
