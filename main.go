package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v79"

	"zapshift-backend/controllers"
	"zapshift-backend/routes"
	"zapshift-backend/store"
	"zapshift-backend/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Stripe secret key for payment-intent creation
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database(utils.DatabaseName())

	// Identity verifier: Firebase in production, HS256 for local development
	verifier, err := newVerifier()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Initialize stores
	userStore := store.NewUserStore(db)
	parcelStore := store.NewParcelStore(db)
	riderStore := store.NewRiderStore(client, db, userStore,
		os.Getenv("MONGO_TRANSACTIONS") == "true")
	paymentStore := store.NewPaymentStore(db)
	trackingStore := store.NewTrackingStore(db)

	// Initialize controllers
	parcelController := controllers.NewParcelController(parcelStore)
	userController := controllers.NewUserController(userStore)
	riderController := controllers.NewRiderController(riderStore, emailService)
	paymentController := controllers.NewPaymentController(paymentStore)
	trackingController := controllers.NewTrackingController(trackingStore)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, verifier, userStore,
		parcelController, userController, riderController,
		paymentController, trackingController)

	// CORS for the web client
	origins := []string{"*"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("Server is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(router)))
}

func newVerifier() (utils.TokenVerifier, error) {
	if path := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); path != "" {
		return utils.NewFirebaseVerifier(context.Background(), path)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Using HS256 token verification.")
		return utils.NewHSVerifier(secret), nil
	}
	return nil, errors.New("no identity verifier configured: set FIREBASE_SERVICE_ACCOUNT_PATH or JWT_SECRET")
}
