// Package cloudconverttest provides an in-process fake of the CloudConvert
// job API for tests.
package cloudconverttest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"compresspdf/internal/cloudconvert"

	"github.com/gorilla/mux"
)

// Upload is one multipart upload received by the fake storage endpoint.
type Upload struct {
	TaskID   string
	Fields   []string
	Values   map[string]string
	Filename string
	Content  []byte
}

// Server fakes the job API, the sync API, the upload form target and the
// export file host on a single httptest server.
type Server struct {
	*httptest.Server

	APIKey string
	Output []byte

	// Failure knobs, set before the request under test.
	CreateStatus   int
	FailTask       string
	FailMessage    string
	NoExport       bool
	DownloadStatus int

	mu       sync.Mutex
	nextID   int
	jobs     map[string]*cloudconvert.Job
	created  []cloudconvert.JobRequest
	uploads  []Upload
	requests []string
}

// NewServer starts a fake that accepts apiKey and serves output as the
// compressed file.
func NewServer(apiKey string, output []byte) *Server {
	s := &Server{
		APIKey: apiKey,
		Output: output,
		jobs:   make(map[string]*cloudconvert.Job),
	}

	r := mux.NewRouter()
	r.Use(s.record)

	api := r.PathPrefix("/v2").Subrouter()
	api.Use(s.authenticate)
	api.HandleFunc("/jobs", s.handleCreateJob).Methods(http.MethodPost)

	syncAPI := r.PathPrefix("/sync/v2").Subrouter()
	syncAPI.Use(s.authenticate)
	syncAPI.HandleFunc("/jobs/{id}", s.handleWaitJob).Methods(http.MethodGet)

	r.HandleFunc("/upload/{task}", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/files/{name}", s.handleFile).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the value for cloudconvert.Options.BaseURL.
func (s *Server) BaseURL() string { return s.URL + "/v2" }

// SyncBaseURL is the value for cloudconvert.Options.SyncBaseURL.
func (s *Server) SyncBaseURL() string { return s.URL + "/sync/v2" }

// Created returns the job create bodies received so far.
func (s *Server) Created() []cloudconvert.JobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cloudconvert.JobRequest(nil), s.created...)
}

// Uploads returns the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Requests returns "METHOD path" for every request in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.APIKey {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if s.CreateStatus != 0 {
		writeError(w, s.CreateStatus, "INVALID_DATA", "The given data was invalid.")
		return
	}

	var req cloudconvert.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_DATA", err.Error())
		return
	}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("job-%d", s.nextID)
	job := &cloudconvert.Job{ID: id, Tag: req.Tag, Status: cloudconvert.JobStatusWaiting}
	for name, task := range req.Tasks {
		t := cloudconvert.Task{
			ID:        id + "-" + name,
			Name:      name,
			Operation: task.Operation,
			Status:    cloudconvert.JobStatusWaiting,
		}
		if task.Operation == cloudconvert.OperationImportUpload {
			t.Result = &cloudconvert.TaskResult{Form: &cloudconvert.UploadForm{
				URL: s.URL + "/upload/" + t.ID,
				Parameters: map[string]any{
					"signature": "sig-" + id,
					"expires":   1700000000,
				},
			}}
		}
		job.Tasks = append(job.Tasks, t)
	}
	s.jobs[id] = job
	s.created = append(s.created, req)
	resp := *job
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleWaitJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Job not found.")
		return
	}

	uploaded := ""
	for _, u := range s.uploads {
		if strings.HasPrefix(u.TaskID, id+"-") {
			uploaded = u.Filename
		}
	}

	job.Status = cloudconvert.JobStatusFinished
	for i := range job.Tasks {
		task := &job.Tasks[i]
		task.Status = cloudconvert.JobStatusFinished
		switch {
		case task.Name == s.FailTask:
			task.Status = cloudconvert.JobStatusError
			task.Message = s.FailMessage
			job.Status = cloudconvert.JobStatusError
		case task.Operation == cloudconvert.OperationImportUpload && uploaded == "":
			task.Status = cloudconvert.JobStatusError
			task.Message = "No file has been uploaded."
			job.Status = cloudconvert.JobStatusError
		case task.Operation == cloudconvert.OperationExportURL && !s.NoExport:
			task.Result = &cloudconvert.TaskResult{Files: []cloudconvert.ResultFile{{
				Filename: uploaded,
				Size:     int64(len(s.Output)),
				URL:      s.URL + "/files/" + uploaded,
			}}}
		}
	}
	resp := *job
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upload := Upload{TaskID: mux.Vars(r)["task"], Values: make(map[string]string)}
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(part)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		name := part.FormName()
		upload.Fields = append(upload.Fields, name)
		if name == "file" {
			upload.Filename = part.FileName()
			upload.Content = data
		} else {
			upload.Values[name] = string(data)
		}
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if s.DownloadStatus != 0 {
		http.Error(w, http.StatusText(s.DownloadStatus), s.DownloadStatus)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(s.Output)
}

func writeJSON(w http.ResponseWriter, status int, job cloudconvert.Job) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": job})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
