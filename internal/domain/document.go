package domain

import "time"

// IssuedDocument represents a fiscal document that the backend has
// authorized. One row is recorded per successfully emitted draft.
type IssuedDocument struct {
	ID         string    `json:"id"`
	RemoteID   string    `json:"remote_id"`
	BatchID    string    `json:"batch_id"`
	Number     int64     `json:"number"`
	Series     int64     `json:"series"`
	AccessKey  string    `json:"access_key"`
	Total      float64   `json:"total"`
	PDFURL     string    `json:"pdf_url,omitempty"`
	XMLURL     string    `json:"xml_url,omitempty"`
	ArchiveURL string    `json:"archive_url,omitempty"`
	Status     string    `json:"status"`
	IssuedAt   time.Time `json:"issued_at"`
}
