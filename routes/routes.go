package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"zapshift-backend/controllers"
	"zapshift-backend/middleware"
	"zapshift-backend/store"
	"zapshift-backend/utils"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	verifier utils.TokenVerifier,
	users store.UserStore,
	parcelController *controllers.ParcelController,
	userController *controllers.UserController,
	riderController *controllers.RiderController,
	paymentController *controllers.PaymentController,
	trackingController *controllers.TrackingController,
) {
	auth := middleware.Auth(verifier)
	admin := middleware.RequireAdmin(users)
	emailMatch := middleware.RequireEmailMatch()

	// Parcel routes. "/parcels/assignable" is registered before the {id}
	// routes so mux does not capture it as an id.
	router.Handle("/parcels", auth(http.HandlerFunc(parcelController.Create))).Methods("POST")
	router.HandleFunc("/parcels", parcelController.GetAll).Methods("GET")
	router.HandleFunc("/parcels/assignable", parcelController.GetAssignable).Methods("GET")
	router.HandleFunc("/parcels/payment-status/{id}", parcelController.MarkPaid).Methods("PATCH")
	router.HandleFunc("/parcels/{id}", parcelController.GetByID).Methods("GET")
	router.HandleFunc("/parcels/{id}", parcelController.Update).Methods("PATCH")
	router.HandleFunc("/parcels/{id}/cashout", parcelController.UpdateCashout).Methods("PATCH")
	router.HandleFunc("/parcels/{id}/delivery-status", parcelController.UpdateDeliveryStatus).Methods("PATCH")
	router.HandleFunc("/parcels/{id}/assign-rider", parcelController.AssignRider).Methods("PATCH")
	router.HandleFunc("/my-parcel", parcelController.GetMyParcels).Methods("GET")
	router.HandleFunc("/parcel-status-counts", parcelController.StatusCounts).Methods("GET")

	// Payment routes
	router.HandleFunc("/create-payment-intent", paymentController.CreateIntent).Methods("POST")
	router.HandleFunc("/payments", paymentController.Record).Methods("POST")
	router.Handle("/payments", auth(emailMatch(http.HandlerFunc(paymentController.List)))).Methods("GET")

	// User routes
	router.HandleFunc("/users", userController.Upsert).Methods("POST")
	router.HandleFunc("/users", userController.Get).Methods("GET")
	router.HandleFunc("/user-role", userController.GetRole).Methods("GET")
	router.Handle("/users/admin/{email}", auth(admin(http.HandlerFunc(userController.PromoteToAdmin)))).Methods("PATCH")

	// Rider routes
	router.HandleFunc("/riders", riderController.Apply).Methods("POST")
	router.Handle("/riders", auth(admin(http.HandlerFunc(riderController.ListByStatus)))).Methods("GET")
	router.Handle("/riders/all", auth(admin(http.HandlerFunc(riderController.ListAll)))).Methods("GET")
	router.Handle("/riders/{id}", auth(admin(http.HandlerFunc(riderController.SetStatus)))).Methods("PATCH")
	router.HandleFunc("/riders-by-city", riderController.ListByCity).Methods("GET")
	router.HandleFunc("/rider-assigned-parcels", parcelController.RiderAssigned).Methods("GET")
	router.HandleFunc("/rider-completed-parcels", parcelController.RiderCompleted).Methods("GET")
	router.HandleFunc("/rider-earnings", parcelController.RiderEarnings).Methods("GET")

	// Tracking routes
	router.HandleFunc("/tracking", trackingController.Append).Methods("POST")
	router.HandleFunc("/tracking", trackingController.List).Methods("GET")

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ZapShift parcel delivery server is running"))
	}).Methods("GET")
}
