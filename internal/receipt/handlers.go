package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrNoFile is returned when the upload has no "file" part
var ErrNoFile = errors.New("no file was uploaded in the \"file\" field")

// multipartMemory is how much of a multipart body is held in memory before spilling to disk
const multipartMemory = 32 << 20

// writeJSON writes v as a JSON response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeFailure writes the failure envelope. Pipeline failures are reported with
// status 200 so clients only need to inspect the body.
func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusOK, FailureEnvelope{
		Success: false,
		Error:   err.Error(),
		Message: failedMessage,
	})
}

// handleNotFound answers unknown paths with a JSON body
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, Detail{Detail: "Not Found"})
}

// methodNotAllowed answers known paths requested with the wrong method
func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeJSON(w, http.StatusMethodNotAllowed, Detail{Detail: "Method Not Allowed"})
	}
}

// handleHealth reports that the backend is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Message: healthMessage})
}

// handleTestReceipt returns a fixed result without calling the model
func (s *Server) handleTestReceipt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    mockReceipt(),
		Message: testMessage,
	})
}

// handleAnalyzeReceipt runs an uploaded receipt through the analysis pipeline
func (s *Server) handleAnalyzeReceipt(w http.ResponseWriter, r *http.Request) {
	id := requestID(r)

	filename, data, contentType, err := s.readUpload(w, r)
	if err != nil {
		slog.Error("Error reading upload", "request_id", id, "error", err)
		writeFailure(w, err)
		return
	}

	slog.Info("Analyzing receipt",
		"request_id", id,
		"filename", filename,
		"content_type", contentType,
		"file_size", len(data),
	)

	result, err := s.service.Analyze(r.Context(), filename, data, contentType)
	if err != nil {
		slog.Error("Error analyzing receipt", "request_id", id, "filename", filename, "error", err)
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    result,
		Message: analyzedMessage,
	})
}

// readUpload reads the "file" part of a multipart upload
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, string, error) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, "", fmt.Errorf("file is too large, maximum size is %d bytes", maxErr.Limit)
		}
		return "", nil, "", fmt.Errorf("parsing form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, "", ErrNoFile
		}
		return "", nil, "", fmt.Errorf("getting file from form: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, "", fmt.Errorf("reading file: %w", err)
	}

	return header.Filename, data, uploadContentType(header.Header.Get("Content-Type"), header.Filename), nil
}

// uploadContentType returns the part's declared type, guessing from the extension when absent
func uploadContentType(declared, filename string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
