package api

// Check statuses.
const (
	CheckOK      = "ok"
	CheckInvalid = "invalid"
	CheckFailed  = "failed"
)

// CheckV1 is one row of `agpsplice check` output.
type CheckV1 struct {
	Part     string `json:"part"`
	Status   string `json:"status"`
	Combined string `json:"combined,omitempty"`
	Records  int    `json:"records,omitempty"`
	Error    string `json:"error,omitempty"`
}
