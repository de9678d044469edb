package ui

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "serviceboard/internal/errors"
)

// multipartSlack covers boundaries and part headers on top of the file itself.
const multipartSlack = 64 << 10

// handleUpload accepts one workbook in the multipart field "file" and
// publishes it as the latest report.
func (s *Server) handleUpload(c *gin.Context) {
	limit := s.opts.UploadMaxBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondTooLarge(c, limit)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field 'file'."})
		return
	}
	if limit > 0 && fileHeader.Size > limit {
		s.respondTooLarge(c, limit)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	s.logger.Info("upload received",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)))

	res, err := s.reports.Ingest(c.Request.Context(), data, filename)
	if err != nil {
		if apperrors.IsInputError(err) {
			s.logger.Warn("upload rejected", zap.String("filename", filename), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
				"code":  apperrors.GetCode(err),
			})
			return
		}
		s.logger.Error("upload failed", zap.String("filename", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process workbook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"id":       res.ID,
		"meta":     res.Document.Meta,
		"archived": res.Archived,
	})
}

func (s *Server) respondTooLarge(c *gin.Context, limit int64) {
	err := apperrors.PayloadTooLarge(limit)
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": err.Message,
		"code":  err.Code,
	})
}
