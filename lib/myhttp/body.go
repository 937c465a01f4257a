package myhttp

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-playground/form/v4"

	"github.com/floresvictoria/shopbackend/lib/myerrors"
)

const maxBodySize = 1 << 20

var formDecoder = form.NewDecoder()

// ReadBody returns the raw request body, capped at 1MB.
func ReadBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, myerrors.NewInvalidInputErrorf("error reading request body: %s", err)
	}
	if len(body) > maxBodySize {
		return nil, myerrors.NewInvalidInputErrorf("request body exceeds %d bytes", maxBodySize)
	}
	return body, nil
}

// IsForm tells whether the request carries an html-form instead of json.
func IsForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

// DecodeForm decodes an url-encoded body into a struct using its `form` tags.
func DecodeForm(body []byte, target interface{}) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return myerrors.NewInvalidInputErrorf("error parsing form: %s", err)
	}
	err = formDecoder.Decode(target, values)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}
	return nil
}
