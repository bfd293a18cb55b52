package render

// ChangeOp is the kind of mutation recorded in a Change
type ChangeOp string

const (
	OpFill       ChangeOp = "fill"
	OpVisibility ChangeOp = "visibility"
	OpText       ChangeOp = "text"
	OpMove       ChangeOp = "move"
)

// Change is one journaled scene mutation, in the form sent to browsers
type Change struct {
	Op         ChangeOp `json:"op"`
	Target     ShapeID  `json:"target"`
	Fill       string   `json:"fill,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Visible    *bool    `json:"visible,omitempty"`
	Text       string   `json:"text,omitempty"`
	X          float64  `json:"x,omitempty"`
	Y          float64  `json:"y,omitempty"`
}
