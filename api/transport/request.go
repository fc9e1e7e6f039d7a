package transport

import (
	"encoding/json"
	"strconv"
)

type TaskRequest struct {
	Name *string `json:"name"`
}

type ReorderRequest struct {
	TaskIDs []TaskID `json:"taskIds"`
}

type CompleteRequest struct {
	Date string `json:"date"`
}

type FootnoteRequest struct {
	Footnote string `json:"footnote"`
	Date     string `json:"date"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// TaskID accepts both JSON numbers and numeric strings, since browsers read
// ids back from DOM attributes.
type TaskID int64

func (id *TaskID) UnmarshalJSON(data []byte) error {
	var raw json.Number
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = json.Number(s)
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := strconv.ParseInt(raw.String(), 10, 64)
	if err != nil {
		return err
	}
	*id = TaskID(v)
	return nil
}

// IDs converts the request ids to int64.
func (r ReorderRequest) IDs() []int64 {
	ids := make([]int64, len(r.TaskIDs))
	for i, id := range r.TaskIDs {
		ids[i] = int64(id)
	}
	return ids
}
