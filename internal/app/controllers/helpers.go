// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/services"
)

// APIBasePath is the prefix download links in responses are built on
const APIBasePath = "/api/v1"

// uploadField is the multipart field carrying the file
const uploadField = "file"

// readUpload returns the uploaded file, or nil when the request carries none.
// The returned func closes the file and is always safe to call.
func readUpload(ctx *gin.Context) (*models.Upload, func(), error) {
	noop := func() {}

	header, err := ctx.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	upload := &models.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return upload, func() { file.Close() }, nil
}

// serveDownload streams a stored file as an attachment
func serveDownload(ctx *gin.Context, d *services.Download) {
	if d.LocalPath != "" {
		ctx.FileAttachment(d.LocalPath, d.FileName)
		return
	}

	defer d.Content.Close()
	ctx.DataFromReader(http.StatusOK, d.Size, d.ContentType, d.Content, map[string]string{
		"Content-Disposition": attachmentDisposition(d.FileName),
	})
}

// attachmentDisposition quotes or RFC 2231-encodes name as needed.
func attachmentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
