package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/uniyatwon/yatwon/internal/client/models"
)

// buildMultipart encodes plain fields and media uploads as a multipart form
// body and returns it with its content type.
//
// Encoding rules for media parts: the file extension is lower-cased and
// "jpg" canonicalizes to "jpeg"; the part content type is video/mp4 for
// video uploads and image/<ext> otherwise.
func buildMultipart(fields map[string]string, mediaField string, media []Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	for _, m := range media {
		data := m.Data
		if data == nil {
			var err error
			data, err = os.ReadFile(m.Path)
			if err != nil {
				return nil, "", fmt.Errorf("reading media file: %w", err)
			}
		}

		ext := canonicalExt(m.Path)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(
			`form-data; name=%q; filename=%q`, mediaField, "upload_"+uuid.NewString()+"."+ext))
		header.Set("Content-Type", partContentType(m.Type, ext))

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating media part: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("writing media part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func canonicalExt(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	if ext == "" {
		ext = "jpeg"
	}
	return ext
}

func partContentType(mt models.MediaType, ext string) string {
	if mt == models.MediaVideo {
		return "video/mp4"
	}
	return "image/" + ext
}
