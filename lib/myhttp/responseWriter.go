package myhttp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/mylog"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type ResponseWriter interface {
	WriteError(c context.Context, w http.ResponseWriter, errorCode int, err error)
	Write(c context.Context, w http.ResponseWriter, httpStatus int, resp interface{})
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccess(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

func NewWriter(logger mylog.Logger) ResponseWriter {
	return &responseWriter{
		logger: logger,
	}
}

type responseWriter struct {
	logger mylog.Logger
}

// WriteError reports client errors verbatim and hides the details of server errors.
func (rw responseWriter) WriteError(c context.Context, w http.ResponseWriter, errorCode int, err error) {
	httpStatus := myerrors.GetHTTPStatus(err)

	resp := errorResponse{
		Status:  StatusFail,
		Message: myerrors.Cause(err),
	}
	switch {
	case httpStatus == http.StatusServiceUnavailable:
		resp = errorResponse{Status: StatusError, Message: "service temporarily unavailable"}
	case httpStatus >= 500:
		resp = errorResponse{Status: StatusError, Message: "internal server error"}
	}

	severity := mylog.SeverityWarn
	if httpStatus >= 500 {
		severity = mylog.SeverityError
	}
	rw.logger.Log(c, "", severity, "Error response: http-status:%d, error-code:%d, error-msg:%s", httpStatus, errorCode, err)

	rw.write(w, httpStatus, resp)
}

func (rw responseWriter) Write(c context.Context, w http.ResponseWriter, httpStatus int, resp interface{}) {
	rw.logger.Log(c, "", mylog.SeverityDebug, "Success response: http-status:%d", httpStatus)
	rw.write(w, httpStatus, resp)
}

func (rw responseWriter) write(w http.ResponseWriter, httpStatus int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	err := encoder.Encode(resp)
	if err != nil {
		log.Printf("Error writing response: %s", err)
		return
	}
}
