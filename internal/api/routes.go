package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

type createBookRequest struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Copies          int    `json:"copies"`
}

type registerUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type borrowRequest struct {
	UserID string `json:"user_id"`
	ISBN   string `json:"isbn"`
}

type returnRequest struct {
	UserID     string `json:"user_id"`
	ISBN       string `json:"isbn"`
	BorrowDate string `json:"borrow_date"`
}

// borrowResponse renders the borrow date in the form Return accepts.
type borrowResponse struct {
	UserID     string `json:"user_id"`
	ISBN       string `json:"isbn"`
	BookTitle  string `json:"book_title"`
	Status     string `json:"status"`
	BorrowDate string `json:"borrow_date"`
}

type bookBorrowResponse struct {
	ISBN       string `json:"isbn"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	BorrowDate string `json:"borrow_date"`
}

func toBorrowResponse(r catalog.BorrowRecord) borrowResponse {
	return borrowResponse{
		UserID:     r.UserID.String(),
		ISBN:       r.ISBN,
		BookTitle:  r.BookTitle,
		Status:     string(r.Status),
		BorrowDate: catalog.FormatTimestamp(r.BorrowedAt),
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decode(w, r, &req) {
		return
	}

	book, err := catalog.BuildBook(req.ISBN, req.Title, req.Author, req.Category, req.Publisher, req.PublicationYear, req.Copies)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	if err = h.writer.CreateBook(r.Context(), book); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/books/"+book.ISBN)
	respondWithJSON(w, http.StatusCreated, book)
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]

	book, found, err := h.reader.BookByISBN(r.Context(), isbn)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	if !found {
		respondWithError(w, http.StatusNotFound, "Book not found")
		return
	}

	respondWithJSON(w, http.StatusOK, book)
}

// ListBooks lists one category if the category parameter is given, otherwise the whole catalog.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("category") {
		books, err := query.Collect(h.reader.BooksByCategory(r.Context(), r.URL.Query().Get("category")))
		if err != nil {
			h.respondWithDomainError(w, r, err)
			return
		}

		respondWithJSON(w, http.StatusOK, books)

		return
	}

	books, err := query.Collect(h.reader.AllBooks(r.Context()))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, books)
}

func (h *Handler) BookBorrowHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := query.Collect(h.reader.BookBorrowHistory(r.Context(), mux.Vars(r)["isbn"]))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	response := make([]bookBorrowResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, bookBorrowResponse{
			ISBN:       e.ISBN,
			UserID:     e.UserID.String(),
			UserName:   e.UserName,
			BorrowDate: catalog.FormatTimestamp(e.BorrowedAt),
		})
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := h.writer.CreateUser(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/users/"+id.String())
	respondWithJSON(w, http.StatusCreated, map[string]string{"user_id": id.String()})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseUserID(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	user, found, err := h.reader.UserByID(r.Context(), id)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	if !found {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ListUsers looks up one user if the email parameter is given, otherwise lists all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		user, found, err := h.reader.UserByEmail(r.Context(), email)
		if err != nil {
			h.respondWithDomainError(w, r, err)
			return
		}

		if !found {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}

		respondWithJSON(w, http.StatusOK, user)

		return
	}

	users, err := query.Collect(h.reader.AllUsers(r.Context()))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) UserBorrowHistory(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseUserID(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	records, err := query.Collect(h.reader.UserBorrowHistory(r.Context(), id))
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	response := make([]borrowResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toBorrowResponse(record))
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := catalog.ParseUserID(req.UserID)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	record, err := h.circulation.Borrow(r.Context(), id, req.ISBN)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toBorrowResponse(record))
}

func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := catalog.ParseUserID(req.UserID)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	borrowedAt, err := catalog.ParseTimestamp(req.BorrowDate)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	if err = h.circulation.Return(r.Context(), id, req.ISBN, borrowedAt); err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(catalog.StatusReturned)})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reader.Stats(r.Context())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// decode reads a JSON body into dst and answers 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Stream read error")
		return false
	}

	if err = json.Unmarshal(body, dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}

	return true
}
