// Package ingestion implements the upload input contract: pasted text or a binary file
// with its mime type, validated and normalized before any model call.
package ingestion

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind distinguishes pasted text from uploaded files
type Kind string

// Input kinds
const (
	KindText   Kind = "text"
	KindBinary Kind = "binary"
)

// Well-known mime types
const (
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEZip  = "application/zip"
)

// Input is one resume submission
type Input struct {
	Kind     Kind
	Text     string
	Data     []byte
	MIMEType string
	Filename string
}

// TextInput returns a pasted-text input
func TextInput(text string) Input {
	return Input{Kind: KindText, Text: text, MIMEType: MIMEText}
}

// BinaryInput returns a file input. The mime type is re-checked by Prepare.
func BinaryInput(data []byte, mimeType, filename string) Input {
	return Input{Kind: KindBinary, Data: data, MIMEType: mimeType, Filename: filename}
}

// IsText reports whether the input is passed to the model as inline text.
func (in Input) IsText() bool {
	return in.Kind == KindText || strings.HasPrefix(in.MIMEType, "text/")
}

// Size returns the content length in bytes
func (in Input) Size() int {
	if in.Kind == KindText {
		return len(in.Text)
	}
	return len(in.Data)
}

// Prepare validates an input and returns its normalized form. Text is cleaned (HTML is
// reduced to its visible text), binary uploads are sniffed, text files become text
// inputs and DOCX or unknown formats are rejected with an UnsupportedFormatError.
func Prepare(in Input) (Input, error) {
	switch in.Kind {
	case KindText:
		return prepareText(in)
	case KindBinary:
		return prepareBinary(in)
	default:
		return Input{}, fmt.Errorf("unknown input kind %q", in.Kind)
	}
}

func prepareText(in Input) (Input, error) {
	text := in.Text
	if baseMIME(in.MIMEType) == MIMEHTML {
		extracted, err := HTMLText(text)
		if err != nil {
			return Input{}, err
		}
		text = extracted
	}

	text = CleanText(text)
	if text == "" {
		return Input{}, ErrEmptyInput
	}
	return Input{Kind: KindText, Text: text, MIMEType: MIMEText, Filename: in.Filename}, nil
}

func prepareBinary(in Input) (Input, error) {
	if len(in.Data) == 0 {
		return Input{}, ErrEmptyInput
	}

	detected := DetectMIME(in.Data, in.MIMEType, in.Filename)
	switch {
	case detected == MIMEDOCX:
		return Input{}, &UnsupportedFormatError{MIMEType: detected, Message: DOCXMessage}
	case strings.HasPrefix(detected, "text/"):
		return prepareText(Input{Kind: KindText, Text: string(in.Data), MIMEType: detected, Filename: in.Filename})
	case detected == MIMEPDF, strings.HasPrefix(detected, "image/"):
		return Input{Kind: KindBinary, Data: in.Data, MIMEType: detected, Filename: in.Filename}, nil
	default:
		return Input{}, &UnsupportedFormatError{MIMEType: detected, Message: UnsupportedMessage}
	}
}

// DetectMIME sniffs data and reconciles the result with the declared type and file name.
// Zip containers are resolved to DOCX from the declaration or extension since the
// archive alone is ambiguous.
func DetectMIME(data []byte, declared, filename string) string {
	declared = baseMIME(declared)
	isDOCXName := strings.EqualFold(filepath.Ext(filename), ".docx")

	detected := mimetype.Detect(data)
	sniffed := baseMIME(detected.String())

	switch {
	case sniffed == MIMEDOCX:
		return MIMEDOCX
	case sniffed == MIMEZip && (declared == MIMEDOCX || isDOCXName):
		return MIMEDOCX
	case declared != "" && detected.Is(declared):
		return declared
	case sniffed == "application/octet-stream" && declared != "":
		return declared
	case sniffed == "application/octet-stream" && isDOCXName:
		return MIMEDOCX
	}
	return sniffed
}

// StripDataURL removes a "data:<mime>;base64," prefix, returning the payload unchanged otherwise.
func StripDataURL(content string) string {
	if !strings.HasPrefix(content, "data:") {
		return content
	}
	if idx := strings.Index(content, ","); idx >= 0 {
		return content[idx+1:]
	}
	return content
}

// DecodeDataURL decodes a base64 data URL (or bare base64 payload) and returns the bytes
// together with the mime type named in the header, if any.
func DecodeDataURL(content string) ([]byte, string, error) {
	var mimeType string
	if strings.HasPrefix(content, "data:") {
		header, _, ok := strings.Cut(strings.TrimPrefix(content, "data:"), ",")
		if !ok {
			return nil, "", ErrDataURL
		}
		mimeType = baseMIME(strings.TrimSuffix(header, ";base64"))
	}

	payload := strings.TrimSpace(StripDataURL(content))
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDataURL, err)
	}
	return data, mimeType, nil
}

// FromFile reads a resume from disk. An empty mimeType is detected from the content.
func FromFile(path, mimeType string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, fmt.Errorf("file not found: %w", err)
		}
		return Input{}, fmt.Errorf("failed to read file: %w", err)
	}

	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	return Prepare(BinaryInput(data, mimeType, filepath.Base(path)))
}

func baseMIME(v string) string {
	if v == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return mediaType
}
