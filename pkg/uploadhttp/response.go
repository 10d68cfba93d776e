package uploadhttp

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope for every reply.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// StoredFile describes one file persisted by the storage backend.
type StoredFile struct {
	Field        string `json:"field"`
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename"`
	Location     string `json:"location"`
	MIMEType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	HumanSize    string `json:"human_size"`
}

// UploadResult is the data payload of a successful upload.
type UploadResult struct {
	Files []StoredFile `json:"files"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
