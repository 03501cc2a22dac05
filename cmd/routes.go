package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"ustaBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	clientMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleClient))
	artisanMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleArtisan))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Put("/artisan/location", artisanMiddleware.ThenFunc(app.userHandler.UpdateLocation))

	// Service requests
	mux.Post("/request", clientMiddleware.ThenFunc(app.requestHandler.CreateServiceRequest))
	mux.Post("/request/status", authMiddleware.ThenFunc(app.requestHandler.GetServiceRequestsByStatus))
	mux.Get("/request/user/:user_id", authMiddleware.ThenFunc(app.requestHandler.GetServiceRequestsByUserID))
	mux.Post("/request/:id/cancel", clientMiddleware.ThenFunc(app.requestHandler.CancelServiceRequest))
	mux.Post("/request/:id/start", artisanMiddleware.ThenFunc(app.requestHandler.StartJob))
	mux.Post("/request/:id/task/:task_id/complete", artisanMiddleware.ThenFunc(app.requestHandler.CompleteTask))
	mux.Get("/request/:id", authMiddleware.ThenFunc(app.requestHandler.GetServiceRequestByID))

	// Job search
	mux.Get("/jobs/search", artisanMiddleware.ThenFunc(app.jobHandler.SearchJobs))
	mux.Get("/jobs/applied/:request_id", artisanMiddleware.ThenFunc(app.jobHandler.HasApplied))

	// Applications
	mux.Post("/application", artisanMiddleware.ThenFunc(app.applicationHandler.CreateApplication))
	mux.Get("/application/request/:request_id", authMiddleware.ThenFunc(app.applicationHandler.GetApplicationsByRequestID))
	mux.Post("/application/:id/accept", clientMiddleware.ThenFunc(app.applicationHandler.AcceptApplication))
	mux.Post("/application/:id/reject", clientMiddleware.ThenFunc(app.applicationHandler.RejectApplication))

	// Notifications
	mux.Get("/notifications/:user_id/unseen_count", authMiddleware.ThenFunc(app.notificationHandler.GetUnseenCount))
	mux.Get("/notifications/:user_id", authMiddleware.ThenFunc(app.notificationHandler.GetNotificationsByUserID))
	mux.Post("/notifications/:id/seen", authMiddleware.ThenFunc(app.notificationHandler.MarkNotificationSeen))

	// Push tokens
	mux.Post("/fcm/token", authMiddleware.ThenFunc(app.fcmHandler.CreateToken))
	mux.Del("/fcm/token/:token", authMiddleware.ThenFunc(app.fcmHandler.DeleteToken))

	// Realtime notification socket
	mux.Get("/ws", authMiddleware.ThenFunc(app.hub.Handler))

	return mux
}
