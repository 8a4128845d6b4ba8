package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"barrio_hotels/internal/adapters/observability"
	"barrio_hotels/internal/app"
	"barrio_hotels/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
	A *app.AuthService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/hotels", h.listHotels)
		r.Post("/hotels", h.createHotel)
		r.Get("/hotels/{id}", h.getHotel)
		r.Put("/hotels/{id}", h.updateHotel)
		r.Delete("/hotels/{id}", h.deleteHotel)
		// 5 submissions/min per IP with a burst of 5
		r.With(Limit(rate.Every(12*time.Second), 5)).Post("/hotels/{id}/reviews", h.submitReview)
		r.Get("/reviews/pending", h.listPending)
		r.Put("/reviews/{id}/approve", h.approveReview)
		r.Delete("/reviews/{id}", h.removeReview)
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/user", h.currentUser)
	})
}

// ---- wire shapes ----

type hotelJSON struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Neighborhood string    `json:"neighborhood"`
	Photos       []string  `json:"photos"`
	Amenities    []string  `json:"amenities"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type reviewJSON struct {
	ID         int64     `json:"id"`
	HotelID    int64     `json:"hotelId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

type hotelDetailJSON struct {
	hotelJSON
	Reviews       []reviewJSON `json:"reviews"`
	AverageRating *float64     `json:"averageRating"`
}

type userJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toHotelJSON(h domain.Hotel) hotelJSON {
	return hotelJSON{
		ID: h.ID, Name: h.Name, Description: h.Description, Address: h.Address,
		Neighborhood: h.Neighborhood, Photos: h.Photos, Amenities: h.Amenities,
		CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
}

func toReviewJSON(rv domain.Review) reviewJSON {
	return reviewJSON{
		ID: rv.ID, HotelID: rv.HotelID, AuthorName: rv.AuthorName,
		Rating: rv.Rating, Comment: rv.Comment, IsApproved: rv.IsApproved,
		CreatedAt: rv.CreatedAt,
	}
}

func toReviewsJSON(rs []domain.Review) []reviewJSON {
	out := make([]reviewJSON, 0, len(rs))
	for _, rv := range rs {
		out = append(out, toReviewJSON(rv))
	}
	return out
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps the domain taxonomy onto HTTP. Anything unclassified is a
// store failure: logged, answered generically.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", verr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin access required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.ListHotels(r.Context(), r.URL.Query().Get("neighborhood"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]hotelJSON, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, toHotelJSON(ht))
	}
	writeWithETag(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	hv, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeWithETag(w, r, hotelDetailJSON{
		hotelJSON:     toHotelJSON(hv.Hotel),
		Reviews:       toReviewsJSON(hv.Reviews),
		AverageRating: hv.AverageRating,
	})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	created, err := h.C.CreateHotel(r.Context(), ActorFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelJSON(created))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var patch app.HotelPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	updated, err := h.C.UpdateHotel(r.Context(), ActorFromContext(r.Context()), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelJSON(updated))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := h.C.DeleteHotel(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- reviews ----

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var in app.ReviewInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	rv, err := h.C.SubmitReview(r.Context(), id, in)
	if err != nil {
		observability.ObserveSubmission("rejected")
		writeError(w, err)
		return
	}
	observability.ObserveSubmission("accepted")
	writeJSON(w, http.StatusOK, toReviewJSON(rv))
}

func (h *Handlers) listPending(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.ListPendingReviews(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewsJSON(rs))
}

func (h *Handlers) approveReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	rv, err := h.C.ApproveReview(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveModeration("approve")
	writeJSON(w, http.StatusOK, toReviewJSON(rv))
}

func (h *Handlers) removeReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := h.C.RemoveReview(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveModeration("remove")
	w.WriteHeader(http.StatusNoContent)
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.CredentialsInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	u, err := h.A.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userJSON{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.CredentialsInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	sess, err := h.A.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, struct {
		Token string   `json:"token"`
		User  userJSON `json:"user"`
	}{
		Token: sess.Token,
		User:  userJSON{ID: sess.UserID, Username: sess.Username, IsAdmin: sess.IsAdmin},
	})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.A.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if !actor.Authenticated {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	writeJSON(w, http.StatusOK, userJSON{ID: actor.UserID, Username: actor.Username, IsAdmin: actor.IsAdmin})
}
