package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"hooparchives_server/services"
)

// UploadController hands producers presigned URLs so raw footage goes to
// the bucket directly, never through this service. Upload URLs are issued
// under the producer identity, read URLs under the operator identity; the
// policy layer keeps either from crossing its prefix grants.
type UploadController struct {
	Producer *services.S3Service
	Reader   *services.S3Service
	Log      *logrus.Logger
}

// NewUploadController creates a new instance of UploadController
func NewUploadController(producer, reader *services.S3Service, log *logrus.Logger) *UploadController {
	return &UploadController{Producer: producer, Reader: reader, Log: log}
}

// GeneratePresignedURL generates a presigned URL for uploading raw footage
func (c *UploadController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	url, key, err := c.Producer.PresignUpload(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		c.Log.WithError(err).Error("failed to generate presigned upload URL")
		writeError(w, err, "Failed to generate presigned URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// GetPresignedReadURL generates a presigned URL for reading an object
func (c *UploadController) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := c.Reader.PresignRead(r.Context(), payload.Key)
	if err != nil {
		c.Log.WithError(err).Error("failed to generate presigned read URL")
		writeError(w, err, "Failed to generate presigned read URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
