package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// readFields decodes a request body into a flat set of string fields. JSON
// objects and url-encoded or multipart forms are accepted. A JSON null is
// treated as an absent field; any other non-string JSON value is rejected.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return readForm(r, mediaType == "multipart/form-data")
	default:
		return readJSONObject(r.Body)
	}
}

func readForm(r *http.Request, multipart bool) (map[string]string, error) {
	var err error
	if multipart {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, inputError("invalid form body")
	}
	fields := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields, nil
}

func readJSONObject(body io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, inputError("request body too large")
		}
		return nil, inputError("failed to read request body")
	}
	fields := map[string]string{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, inputError("invalid JSON body")
	}
	for k, v := range raw {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, inputError(k + " must be a string")
		}
		fields[k] = s
	}
	return fields, nil
}
