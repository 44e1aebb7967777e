// pkg/api/summary_v1.go
package api

// PartV1 is the stable JSON schema for one finished part.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type PartV1 struct {
	Part        string   `json:"part"`
	Dir         string   `json:"dir"`
	Combined    string   `json:"combined"`
	Archive     string   `json:"archive"`
	Identifiers int      `json:"identifiers"`
	Sequences   int      `json:"sequences"`
	Missing     []string `json:"missing,omitempty"`   // archive names outside the identifier set
	Unmatched   []string `json:"unmatched,omitempty"` // identifiers with no sequence
	Published   []string `json:"published,omitempty"` // object keys
}

// SummaryV1 is written to OUTPUT_DIR/summary.json after every run.
type SummaryV1 struct {
	Version string   `json:"version"`
	Parts   []PartV1 `json:"parts"`
	Skipped []string `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
}
