package devapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type detailBody struct {
	Detail any `json:"detail"`
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, detailBody{Detail: detail})
}

func writeMissing(w http.ResponseWriter, fields ...string) {
	errs := make([]fieldError, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, fieldError{Loc: []string{"body", f}, Msg: "field required: " + f, Type: "value_error.missing"})
	}
	writeDetail(w, http.StatusUnprocessableEntity, errs)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	return true
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
