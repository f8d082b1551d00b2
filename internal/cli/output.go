package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		fmt.Fprintf(o.w, "%s (id %d)\n", v.Message, v.PlayerID)
	case MessageResult:
		fmt.Fprintln(o.w, v.Message)
	case Player:
		fmt.Fprintf(o.w, "Player: %s (%d)\n", v.Username, v.ID)
	case []Score:
		o.printScores(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printScores(scores []Score) {
	if len(scores) == 0 {
		fmt.Fprintln(o.w, "No scores recorded")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tID\tRECORDED")
	for i, s := range scores {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", i+1, s.Score, s.ID, s.Timestamp.Format(time.RFC3339))
	}
	_ = tw.Flush()
}

// RegisterResult is the response to a registration
type RegisterResult struct {
	Message  string `json:"message"`
	PlayerID int64  `json:"player_id"`
}

// MessageResult is a bare acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// Player response type (matches API)
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Score is one entry of a score history
type Score struct {
	ID        int64     `json:"id"`
	Score     int64     `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
