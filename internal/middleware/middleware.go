package middleware

import (
	"net/http"
	"strconv"

	"github.com/avikram/studybuddy/internal/handlers"
	"github.com/avikram/studybuddy/internal/metrics"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)
var StatusHandler = Wrap(handlers.StatusHandler)

var AskHandler = Wrap(handlers.AskHandler)
var UploadHandler = Wrap(handlers.UploadHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var DocumentInfoHandler = Wrap(handlers.DocumentInfoHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var ClearChatHandler = Wrap(handlers.ClearChatHandler)
var ClearAllHandler = Wrap(handlers.ClearAllHandler)
var ExportHandler = Wrap(handlers.ExportHandler)
var StatsHandler = Wrap(handlers.StatsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}
