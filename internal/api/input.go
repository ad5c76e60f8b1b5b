package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// runRequest is the JSON form of a tool input.
type runRequest struct {
	Text   string            `json:"text"`
	Params map[string]string `json:"params"`
}

const multipartMemory = 8 << 20

// readInput builds a tools.Input from a multipart form or a JSON body.
// Multipart parts named "file" or "files" become files, "text" becomes the
// text input and every other field a parameter.
func readInput(w http.ResponseWriter, r *http.Request, limit int64) (tools.Input, *APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return tools.Input{}, bodyError(err, limit)
		}
		defer r.MultipartForm.RemoveAll()
		in := tools.Input{Params: map[string]string{}}
		for field, values := range r.MultipartForm.Value {
			if len(values) == 0 {
				continue
			}
			if field == "text" {
				in.Text = values[0]
				continue
			}
			in.Params[field] = values[0]
		}
		for _, field := range []string{"file", "files"} {
			for _, fh := range r.MultipartForm.File[field] {
				data, err := readPart(fh)
				if err != nil {
					return tools.Input{}, NewBadRequestError(fmt.Sprintf("could not read upload %s", fh.Filename), err)
				}
				in.Files = append(in.Files, tools.File{Name: fh.Filename, Data: data})
			}
		}
		return in, nil
	case "", "application/json":
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return tools.Input{}, bodyError(err, limit)
		}
		return tools.Input{Text: req.Text, Params: req.Params}, nil
	default:
		return tools.Input{}, NewBadRequestError("unsupported content type "+mediaType, nil)
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func bodyError(err error, limit int64) *APIError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewPayloadTooLargeError(limit)
	}
	return NewBadRequestError("could not parse request body", err)
}
