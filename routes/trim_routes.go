package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/controllers"
	"hooparchives_server/queue"
)

// RegisterTrimRoutes sets up the producer route for trim requests
func RegisterTrimRoutes(r *mux.Router, q *queue.Queue, log *logrus.Logger) {
	controller := controllers.NewTrimController(q, log)

	r.HandleFunc("/api/trim", controller.RequestTrim).Methods("POST")
}

// RegisterDLQRoutes sets up the operator routes over the dead-letter sink
func RegisterDLQRoutes(r *mux.Router, q *queue.Queue, log *logrus.Logger) {
	controller := controllers.NewDLQController(q, log)

	dlqRouter := r.PathPrefix("/api/dlq").Subrouter()
	dlqRouter.HandleFunc("", controller.ListDeadLetters).Methods("GET")
	dlqRouter.HandleFunc("/{id}/redrive", controller.RedriveDeadLetter).Methods("POST")
}
