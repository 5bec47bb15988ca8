package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"

	"github.com/go-playground/validator/v10"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindStateConflict:
		return http.StatusConflict
	case domain.KindPermission:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindDependency {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, statusFor(kind), errorBody{Error: errorDetail{Code: string(kind), Reason: domain.ReasonOf(err)}})
}

func writeUnauthenticated(w http.ResponseWriter, reason string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "UNAUTHENTICATED", Reason: reason}})
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func (h *handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validation("the request body is not valid JSON")
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domain.Validation("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
		return domain.Validation("the request is invalid")
	}
	return nil
}

// pageParams reads page and page_size, leaving zero for absent values.
func pageParams(r *http.Request) (int32, int32) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	size, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)
	return int32(page), int32(size)
}
