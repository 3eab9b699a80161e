package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/recibo/receipts-server/internal/model"
)

// formImage extracts an optional image attachment from the multipart form.
// An absent field yields a nil upload. The returned closer releases the
// underlying file handle and is safe to call unconditionally.
func formImage(c *fiber.Ctx, field string) (*model.ImageUpload, func(), error) {
	noop := func() {}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	upload := &model.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}
	return upload, func() { file.Close() }, nil
}
