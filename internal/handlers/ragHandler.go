package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avikram/studybuddy/internal/adapter"
	"github.com/avikram/studybuddy/internal/adapter/utils"
	"github.com/avikram/studybuddy/internal/api"
	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var (
	handlerInstance *RagHandler //private singleton
	once            sync.Once
	logRH           *logger_i.Logger
)

type RagHandler struct {
	service rag.Service
}

func InitRagHandler(ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &RagHandler{service: ragService}

		logRH = logger_i.NewLogger("RagHandler")
		logRH.Info("Starting rag handler")
	})
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// StatusHandler godoc
// @Summary      Service status
// @Description  Reports whether documents are loaded and which backend answers questions.
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.StatusResponse
// @Router       /status [get]
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	documents := handlerInstance.service.Documents()
	status := "waiting_for_documents"
	if len(documents) > 0 {
		status = "ready"
	}

	writeJsonResponse(w, http.StatusOK, api.StatusResponse{
		Status:    status,
		Backend:   config.Backend(),
		Documents: documents,
	})
}

// AskHandler godoc
// @Summary      Ask a question
// @Description  Retrieves relevant chunks from the indexed documents and generates a grounded answer with cited sources.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest  true  "Question and optional document filter"
// @Success      200      {object}  api.AskResponse "Always displayable; backend failures carry an error tag"
// @Failure      400      {object}  api.ErrorResponse "Empty or malformed question"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Ask handler reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Question == "" {
		logRH.Warn("Bad Ask Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "question is required")
		return
	}

	result := handlerInstance.service.Ask(r.Context(), requestData.Question, requestData.DocumentFilter)
	writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(result))
}

// UploadHandler godoc
// @Summary      Upload a document
// @Description  Receives a file via multipart/form-data, extracts and chunks its text, and indexes it for retrieval. Re-uploading a name replaces the previous version.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "PDF, DOCX, TXT or MD file"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse "Unsupported format or no extractable text"
// @Failure      502  {object}  api.ErrorResponse "Embedding backend unavailable"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docName := fileMetadata.Filename
	stagedName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), docName)
	tempFilePath := filepath.Join(targetDir, stagedName)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		destinationFileWriter.Close()
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}
	destinationFileWriter.Close()
	defer os.Remove(tempFilePath)

	result, err := handlerInstance.service.ProcessDocument(r.Context(), tempFilePath, docName)
	if err != nil {
		writeProcessError(w, docName, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(result))
}

func writeProcessError(w http.ResponseWriter, docName string, err error) {
	switch {
	case errors.Is(err, ragErrors.ErrUnsupportedFormat),
		errors.Is(err, ragErrors.ErrNoExtractableText),
		errors.Is(err, ragErrors.ErrEncoding),
		errors.Is(err, ragErrors.ErrEmptyChunkResult):
		WriteErrorResponse(w, http.StatusBadRequest, docName, err.Error())
	case errors.Is(err, ragErrors.ErrBackendUnavailable),
		errors.Is(err, ragErrors.ErrBackendTimeout):
		WriteErrorResponse(w, http.StatusBadGateway, docName, err.Error())
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, docName, err.Error())
	}
}

// ListDocumentsHandler godoc
// @Summary      List indexed documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	names := handlerInstance.service.Documents()
	summaries := make([]api.DocumentSummary, 0, len(names))
	totalChunks := 0
	for _, name := range names {
		record, ok := handlerInstance.service.DocumentInfo(name)
		if !ok {
			continue
		}
		summaries = append(summaries, adapter.ToDocumentSummary(name, record))
		totalChunks += record.ChunkCount
	}

	writeJsonResponse(w, http.StatusOK, api.DocumentListResponse{
		Documents:   summaries,
		TotalChunks: totalChunks,
	})
}

// DocumentInfoHandler godoc
// @Summary      Get one document's details
// @Tags         Documents
// @Produce      json
// @Param        name  path      string  true  "Document name"
// @Success      200   {object}  api.DocumentSummary
// @Failure      404   {object}  api.ErrorResponse
// @Router       /documents/{name} [get]
func DocumentInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	name := utils.GetChiURLParam(r, "name")
	record, ok := handlerInstance.service.DocumentInfo(name)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentSummary(name, record))
}

// DeleteDocumentHandler godoc
// @Summary      Remove a document
// @Description  Deletes the document's chunks from the index and drops its registry entry.
// @Tags         Documents
// @Produce      json
// @Param        name  path      string  true  "Document name"
// @Success      200   {object}  api.MessageResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /documents/{name} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	name := utils.GetChiURLParam(r, "name")
	if err := handlerInstance.service.RemoveDocument(r.Context(), name); err != nil {
		if errors.Is(err, ragErrors.ErrDocumentNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
			return
		}
		logRH.Error("Could not remove document", "document", name, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Could not remove document")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "Document removed"})
}

// ClearChatHandler godoc
// @Summary      Clear conversation history
// @Description  Empties the conversation window. Session statistics are kept.
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /clear-chat [post]
func ClearChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if err := handlerInstance.service.ClearConversation(r.Context()); err != nil {
		logRH.Error("Could not clear conversation", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not clear conversation")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "Conversation cleared"})
}

// ClearAllHandler godoc
// @Summary      Clear everything
// @Description  Drops all documents, the conversation history and the session statistics.
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /clear-all [post]
func ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if err := handlerInstance.service.ClearAll(r.Context()); err != nil {
		logRH.Error("Could not clear all", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not clear all data")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "All documents and conversation cleared"})
}

// ExportHandler godoc
// @Summary      Export the conversation
// @Description  Returns the conversation transcript as markdown (default) or JSON.
// @Tags         Conversation
// @Produce      plain
// @Param        format  query  string  false  "markdown or json"  default(markdown)
// @Success      200  {string}  string
// @Failure      400  {object}  api.ErrorResponse "Unknown format"
// @Router       /export [get]
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	content, err := handlerInstance.service.ExportConversation(r.Context(), format)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if format == "json" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		logRH.Error("Error writing export response: %v", err)
	}
}

// StatsHandler godoc
// @Summary      Session statistics
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(handlerInstance.service.Stats(r.Context())))
}
