package apimodel

type PixelsMessage struct {
	Buffer string   `json:"buffer,omitempty"`
	Pixels []uint16 `json:"pixels"`
}

type ColorRequest struct {
	Color string `json:"color"`
}

type LetterRequest struct {
	Letter string `json:"letter"`
	Color  string `json:"color,omitempty"`
}

// MessageRequest starts a scroll. Delay is in milliseconds; nil selects the
// configured delay.
type MessageRequest struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
	Delay *int64 `json:"delay,omitempty"`
}

// GammaMessage carries a 32 entry gamma table as plain numbers.
type GammaMessage struct {
	Gamma []int `json:"gamma"`
}

type StateResponse struct {
	Rotation  string `json:"rotation"`
	LowLight  bool   `json:"low_light"`
	HasGamma  bool   `json:"has_gamma"`
	Scrolling bool   `json:"scrolling"`
}
