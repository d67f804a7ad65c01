package records

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes limita el body de /submit y /search.
const maxBodyBytes = 1 << 20

const submitOKMessage = "Data saved successfully 🎉"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/submit", submitHandler(svc))
	r.Get("/entries", listEntriesHandler(svc))
	r.Post("/search", searchHandler(svc))
}

// submitResponse es el acuse de recibo de /submit.
type submitResponse struct {
	Message string `json:"message"`
}

// validationErrorResponse detalla los campos rechazados.
type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// submitRequest documenta el body de /submit (la decodificación real coerciona tipos).
type submitRequest struct {
	Name          string   `json:"name" example:"Ana"`
	Email         string   `json:"email" example:"a@x.com"`
	Age           *int     `json:"age,omitempty" example:"30"`
	Weight        *float64 `json:"weight,omitempty" example:"61.5"`
	Height        *float64 `json:"height,omitempty" example:"1.68"`
	BloodPressure *string  `json:"blood_pressure,omitempty" example:"120/80"`
	Notes         *string  `json:"notes,omitempty"`
}

// searchRequest documenta el body de /search.
type searchRequest struct {
	Name *string `json:"name,omitempty" example:"ana"`
	Age  *int    `json:"age,omitempty" example:"30"`
}

// submitHandler godoc
// @Summary Enviar un registro de salud
// @Description Valida el registro (name y email obligatorios; números aceptan strings numéricos) y lo agrega al final del store.
// @Tags records
// @Accept json
// @Produce json
// @Param payload body submitRequest true "Registro de salud"
// @Success 200 {object} submitResponse
// @Failure 400 {string} string "invalid json"
// @Failure 413 {string} string "request body too large"
// @Failure 422 {object} validationErrorResponse
// @Failure 503 {string} string "storage unavailable"
// @Failure 500 {string} string "internal error"
// @Router /submit [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeBodyError(w, err)
			return
		}

		in, err := DecodeSubmitInput(body)
		if err != nil {
			writeError(w, err)
			return
		}

		if _, err := svc.Submit(r.Context(), in); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, submitResponse{Message: submitOKMessage})
	}
}

// listEntriesHandler godoc
// @Summary Listar registros
// @Description Devuelve todos los registros en orden de envío. Si el store no existe (o está corrupto con la política recover) devuelve [].
// @Tags records
// @Produce json
// @Success 200 {array} Record
// @Failure 503 {string} string "storage unavailable"
// @Router /entries [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// searchHandler godoc
// @Summary Buscar registros
// @Description Filtra por substring de nombre (sin distinguir mayúsculas) y/o edad exacta. Los criterios se combinan con AND; sin criterios devuelve todo.
// @Tags records
// @Accept json
// @Produce json
// @Param payload body searchRequest false "Criterios de búsqueda"
// @Success 200 {array} Record
// @Failure 400 {string} string "invalid json"
// @Failure 413 {string} string "request body too large"
// @Failure 422 {object} validationErrorResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /search [post]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeBodyError(w, err)
			return
		}

		q, err := DecodeQuery(body)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.Search(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid json", http.StatusBadRequest)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrMalformedBody):
		http.Error(w, "invalid json", http.StatusBadRequest)
	case errors.Is(err, ErrStorageUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
