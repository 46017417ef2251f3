package attachments

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDocxParagraphs(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Dana Developer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, doc)

	text, err := extractText(data, mimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Dana Developer") || !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("expected both lines in extracted text, got %q", text)
	}
	if !strings.Contains(text, "Dana Developer\n") {
		t.Fatalf("expected a paragraph break after the name, got %q", text)
	}
}

func TestExtractTextZipDocxNormalizes(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	// Browsers often upload DOCX with a plain zip content type.
	text, err := extractText(data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextRealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = extractText(buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeMimeTypeStripsParameters(t *testing.T) {
	got := normalizeMimeType("Application/PDF; charset=binary", "cv.pdf", nil)
	if got != mimePDF {
		t.Fatalf("expected %s, got %s", mimePDF, got)
	}
}
