package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/controllers"
	"hooparchives_server/services"
)

// RegisterUploadRoutes sets up the presigned-URL routes for raw uploads
func RegisterUploadRoutes(r *mux.Router, producer, reader *services.S3Service, log *logrus.Logger) {
	controller := controllers.NewUploadController(producer, reader, log)

	r.HandleFunc("/api/uploads/presign", controller.GeneratePresignedURL).Methods("POST")
	r.HandleFunc("/api/uploads/read-url", controller.GetPresignedReadURL).Methods("POST")
}
