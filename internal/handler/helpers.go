package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// pathId parses a numeric path variable; failures surface as plain 400s.
func pathId(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, internal_errors.New("validation_failure", http.StatusBadRequest)
	}
	return id, nil
}
