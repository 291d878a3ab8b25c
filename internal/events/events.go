package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published on the hub.
const (
	TypePing          = "ping"
	TypeSummaryLoaded = "summary_loaded"
	TypeLoadFailed    = "load_failed"
	TypeSorted        = "sorted"
	TypeYearSelected  = "year_selected"
	TypeTitlesLoaded  = "titles_loaded"
	TypeConfigChanged = "config_changed"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// WithRequestID tags ctx so events raised while serving it carry the id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
