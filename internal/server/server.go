package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/avikram/studybuddy/internal/adapter/utils"
	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/middleware"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.GetHandler)
	r.Router.Get("/status", middleware.StatusHandler)

	r.Router.Post("/upload", middleware.UploadHandler)
	r.Router.Post("/ask", middleware.AskHandler)

	r.Router.Get("/documents", middleware.ListDocumentsHandler)
	r.Router.Get("/documents/{name}", middleware.DocumentInfoHandler)
	r.Router.Delete("/documents/{name}", middleware.DeleteDocumentHandler)

	r.Router.Post("/clear-chat", middleware.ClearChatHandler)
	r.Router.Post("/clear-all", middleware.ClearAllHandler)
	r.Router.Get("/export", middleware.ExportHandler)
	r.Router.Get("/stats", middleware.StatsHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
