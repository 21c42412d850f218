package extractors

import (
	"bytes"
	"io"
	"mime"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// decodeToUTF8 converts a fetched text body to UTF-8. A charset declared in
// contentType wins; otherwise HTML meta tags are consulted. Bodies that
// declare nothing and are already valid UTF-8 are returned unchanged.
func decodeToUTF8(content []byte, contentType string) ([]byte, error) {
	if declaredCharset(contentType) == "" && utf8.Valid(content) {
		return content, nil
	}

	r, err := charset.NewReader(bytes.NewReader(content), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func declaredCharset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
