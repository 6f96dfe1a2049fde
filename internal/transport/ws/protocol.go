package ws

import "github.com/san-kum/seesaw/internal/seesaw"

const Version = "1"

// SnapshotMsg is pushed to every observer after each change.
type SnapshotMsg struct {
	Type        string     `json:"type"`
	Version     string     `json:"protocol_version"`
	Phase       string     `json:"phase"`
	Tilt        float64    `json:"tilt"`
	RawTilt     float64    `json:"raw_tilt"`
	LeftWeight  int        `json:"left_weight"`
	RightWeight int        `json:"right_weight"`
	Plank       [4]float64 `json:"plank"`
	Bodies      []BodyMsg  `json:"bodies"`
}

type BodyMsg struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	R       float64 `json:"r"`
	W       int     `json:"w"`
	Size    string  `json:"size"`
	Color   string  `json:"color"`
	Resting bool    `json:"resting"`
}

// ClientMsg is what observers may send: {"type":"spawn","x":..} or
// {"type":"reset"}.
type ClientMsg struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Weight int     `json:"w,omitempty"`
}

func NewSnapshotMsg(s seesaw.Snapshot) SnapshotMsg {
	x1, y1, x2, y2 := s.Plank.Ends()
	msg := SnapshotMsg{
		Type:        "SNAPSHOT",
		Version:     Version,
		Phase:       s.Phase.String(),
		Tilt:        s.VisualAngle,
		RawTilt:     s.RawAngle,
		LeftWeight:  s.Loads.Left,
		RightWeight: s.Loads.Right,
		Plank:       [4]float64{x1, y1, x2, y2},
		Bodies:      make([]BodyMsg, 0, len(s.Bodies)),
	}
	for _, b := range s.Bodies {
		msg.Bodies = append(msg.Bodies, BodyMsg{
			X: b.X, Y: b.Y, R: b.Radius, W: b.Weight,
			Size: b.SizeClass, Color: b.Color, Resting: b.Resting,
		})
	}
	return msg
}
