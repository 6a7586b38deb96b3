package binder

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

// Form creates a binder for urlencoded and multipart bodies.
//
// Supported struct tags:
//   - `form:"name"` binds the form field "name"
//   - `file:"name"` binds the uploaded file "name" to *multipart.FileHeader
//     or []*multipart.FileHeader
//   - `form:"-"` skips the field
//
// Requests with another content type yield ErrBinderNotApplicable.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mt := mediaType(r); {
		case mt == "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.PostForm

		case mt == "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return ErrBinderNotApplicable
		}

		return bindFormAndFiles(v, values, files, ErrFailedToParseForm)
	}
}

func bindFormAndFiles(v any, values map[string][]string, files map[string][]*multipart.FileHeader, bindErr error) error {
	if err := bindToStruct(v, "form", values, bindErr); err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	return walkTagged(v, "file", bindErr, func(name string, field reflect.Value) error {
		if headers := files[name]; len(headers) > 0 {
			return setFileField(field, field.Type(), headers)
		}
		return nil
	})
}

var fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()

func setFileField(field reflect.Value, fieldType reflect.Type, headers []*multipart.FileHeader) error {
	for _, fh := range headers {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	switch {
	case fieldType == fileHeaderType:
		field.Set(reflect.ValueOf(headers[0]))
	case fieldType.Kind() == reflect.Slice && fieldType.Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(headers))
	default:
		return fmt.Errorf("unsupported type for file field: %v", fieldType)
	}
	return nil
}

// sanitizeFilename strips directory components and null bytes.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")
	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}
	return filename
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }
