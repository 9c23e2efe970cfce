package handlers

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes wires the full HTTP surface. The protected subrouter
// carries the auth gate; login, check-auth, logout and the diagnostics
// endpoint stay public.
func RegisterRoutes(r *mux.Router, h *DashboardHandler) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", h.Test).Methods("GET")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/check-auth", h.CheckAuth).Methods("GET")
	api.HandleFunc("/logout", h.Logout).Methods("POST")

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(h.RequireAuth)
	protected.HandleFunc("/scripts", h.ListScripts).Methods("GET")
	protected.HandleFunc("/scripts", h.CreateScript).Methods("POST")
	protected.HandleFunc("/scripts/upload", h.UploadScript).Methods("POST")
	protected.HandleFunc("/scripts/{name}", h.UpdateScript).Methods("PUT")
	protected.HandleFunc("/scripts/{name}", h.DeleteScript).Methods("DELETE")
	protected.HandleFunc("/stats", h.Stats).Methods("GET")
	protected.HandleFunc("/history", h.History).Methods("GET")

	r.PathPrefix("/").Handler(h.Static())
}
