package web

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/JonMunkholm/barredora/internal/logging"
	"github.com/JonMunkholm/barredora/internal/tabfile"
	"github.com/JonMunkholm/barredora/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

var (
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
)

const (
	// multipartOverhead is allowed on top of the file size for form fields
	// and part headers.
	multipartOverhead = 1 << 20

	// multipartMemory is how much of the form is kept in memory before
	// spilling to temporary files.
	multipartMemory = 32 << 20
)

// upload is a file received from a multipart form.
type upload struct {
	file   multipart.File
	header *multipart.FileHeader
	form   *multipart.Form
}

func (u *upload) Close() {
	u.file.Close()
	if u.form != nil {
		u.form.RemoveAll()
	}
}

// readUpload extracts the "file" part of a multipart request, enforcing the
// configured size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	if header.Size > maxSize {
		file.Close()
		r.MultipartForm.RemoveAll()
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", errFileTooLarge, header.Size, maxSize)
	}
	return &upload{file: file, header: header, form: r.MultipartForm}, nil
}

// handleProcess previews an uploaded file and, when the "clean" button was
// pressed, cleans it too.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer up.Close()

	ctx := clientContext(r)
	params := templates.ResultParams{
		FileName:      up.header.Filename,
		MaxFileSizeMB: s.maxFileSizeMB(),
	}

	if r.FormValue("action") == "clean" {
		run, err := s.service.Clean(ctx, up.header.Filename, up.file)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		params.Original = run.Original
		params.OriginalPreview = run.OriginalPreview
		params.Run = run
	} else {
		insp, err := s.service.Inspect(ctx, up.header.Filename, up.file)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		params.Original = insp.Summary
		params.OriginalPreview = insp.Preview
	}

	render(w, r, templates.ResultPage(params))
}

// handleDownload streams the cleaned CSV of a stored run.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCleanedCSV(w, r, run)
}

// writeCleanedCSV sends the cleaned table as an attachment.
func writeCleanedCSV(w http.ResponseWriter, r *http.Request, run *core.Run) {
	w.Header().Set("Content-Type", tabfile.CSVContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": run.DownloadName}))
	w.Header().Set("X-Run-ID", run.ID)

	if err := tabfile.WriteCSV(w, run.Cleaned); err != nil {
		// Headers are already sent; the client sees a truncated file.
		logging.FromContext(r.Context()).Error("failed to write cleaned csv",
			"run_id", run.ID,
			"error", err,
		)
	}
}
