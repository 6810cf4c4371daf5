package http

import (
	"net/http"

	"mindsettler-api/internal/delivery/http/handler"
	"mindsettler-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	bookingHandler      *handler.BookingHandler
	cancellationHandler *handler.CancellationHandler
	paymentHandler      *handler.PaymentHandler
	adminBookingHandler *handler.AdminBookingHandler
	staffHandler        *handler.StaffHandler
	auditLogHandler     *handler.AuditLogHandler
	chatbotHandler      *handler.ChatbotHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	cancellationHandler *handler.CancellationHandler,
	paymentHandler *handler.PaymentHandler,
	adminBookingHandler *handler.AdminBookingHandler,
	staffHandler *handler.StaffHandler,
	auditLogHandler *handler.AuditLogHandler,
	chatbotHandler *handler.ChatbotHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		bookingHandler:      bookingHandler,
		cancellationHandler: cancellationHandler,
		paymentHandler:      paymentHandler,
		adminBookingHandler: adminBookingHandler,
		staffHandler:        staffHandler,
		auditLogHandler:     auditLogHandler,
		chatbotHandler:      chatbotHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public booking routes
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.HandleFunc("/draft", r.bookingHandler.CreateDraft).Methods(http.MethodPost)
	bookings.HandleFunc("/verify-email", r.bookingHandler.VerifyEmail).Methods(http.MethodGet)
	bookings.HandleFunc("/status", r.bookingHandler.GetStatus).Methods(http.MethodGet)
	bookings.HandleFunc("/active", r.bookingHandler.GetActiveBooking).Methods(http.MethodGet)
	bookings.HandleFunc("", r.bookingHandler.ListByEmail).Methods(http.MethodGet)
	bookings.HandleFunc("/request-cancellation", r.cancellationHandler.RequestCancellation).Methods(http.MethodPost)
	bookings.HandleFunc("/verify-cancellation", r.cancellationHandler.VerifyCancellation).Methods(http.MethodGet)
	bookings.HandleFunc("/payment/initiate", r.paymentHandler.InitiatePayment).Methods(http.MethodPost)
	bookings.HandleFunc("/payment/complete", r.paymentHandler.CompletePayment).Methods(http.MethodPost)
	bookings.HandleFunc("/payment/fail", r.paymentHandler.FailPayment).Methods(http.MethodPost)

	// Chatbot (public)
	api.HandleFunc("/chatbot", r.chatbotHandler.Chat).Methods(http.MethodPost)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetMe).Methods(http.MethodGet)

	// Admin routes (protected - staff roles)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireStaff)

	// Booking decisions
	admin.HandleFunc("/bookings", r.adminBookingHandler.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/decide", r.adminBookingHandler.BatchDecide).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/approve", r.adminBookingHandler.ApproveBooking).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/reject", r.adminBookingHandler.RejectBooking).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/cancel", r.adminBookingHandler.CancelBooking).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/complete", r.adminBookingHandler.CompleteBooking).Methods(http.MethodPost)

	// Staff and organization management (admin only)
	adminOnly := api.PathPrefix("/admin").Subrouter()
	adminOnly.Use(r.authMiddleware.Authenticate)
	adminOnly.Use(middleware.RequireAdmin)
	adminOnly.HandleFunc("/staff", r.staffHandler.CreateStaff).Methods(http.MethodPost)
	adminOnly.HandleFunc("/organizations", r.staffHandler.CreateOrganization).Methods(http.MethodPost)
	adminOnly.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)

	admin.HandleFunc("/staff", r.staffHandler.ListStaff).Methods(http.MethodGet)
	admin.HandleFunc("/organizations", r.staffHandler.ListOrganizations).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
