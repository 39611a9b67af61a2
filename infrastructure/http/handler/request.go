package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// bodyFields reads a JSON object or a form-encoded body into flat string fields.
func bodyFields(r *http.Request) (map[string]string, error) {
	fields := make(map[string]string)
	if r.Body == nil || r.Body == http.NoBody {
		return fields, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		return fields, nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return fields, nil
		}
		return nil, err
	}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}

// optionalID parses a positive integer id; blank means absent.
func optionalID(value string) (*int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
