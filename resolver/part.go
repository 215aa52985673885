package resolver

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Part is a named section of multipart request body.
//
// Part may or may not carry a file.
type Part struct {
	Name     string
	FileName string
	Header   textproto.MIMEHeader
	Content  []byte
}

// ContentType returns part content type, empty if not declared.
func (p *Part) ContentType() string {
	return p.Header.Get("Content-Type")
}

// Size returns content length in bytes.
func (p *Part) Size() int64 {
	return int64(len(p.Content))
}

// Open returns reader of part content.
func (p *Part) Open() io.Reader {
	return bytes.NewReader(p.Content)
}

func readParts(body []byte, boundary string) ([]*Part, error) {
	mr := multipart.NewReader(bytes.NewReader(body), boundary)

	var parts []*Part

	for {
		mp, err := mr.NextPart()
		if err == io.EOF {
			return parts, nil
		}

		if err != nil {
			return nil, err
		}

		content, err := io.ReadAll(mp)
		if err != nil {
			return nil, err
		}

		parts = append(parts, &Part{
			Name:     mp.FormName(),
			FileName: mp.FileName(),
			Header:   mp.Header,
			Content:  content,
		})

		if err := mp.Close(); err != nil {
			return nil, err
		}
	}
}
