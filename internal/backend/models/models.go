package models

import "github.com/godilite/washroom-dashboard/internal/washroom"

type Feedback struct {
	Time     string `json:"time"`
	Washroom string `json:"washroom"`
	Rating   int    `json:"rating"`
}

type Usage struct {
	Washroom   string `json:"washroom"`
	TotalUsage int    `json:"totalUsage"`
}

type Notification struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Floor       string `json:"floor"`
	ToiletType  string `json:"toiletType"`
	Timestamp   string `json:"timestamp"`
	Read        bool   `json:"read"`
}

type Configuration struct {
	ID         string `json:"id"`
	ToiletType string `json:"toiletType"`
	Floor      string `json:"floor"`
}

// Identifier is the washroom the configuration describes.
func (c Configuration) Identifier() washroom.Identifier {
	return washroom.Identifier{Floor: washroom.Floor(c.Floor), Type: washroom.ToiletType(c.ToiletType)}
}

type Problem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Floor       string `json:"floor"`
	ToiletType  string `json:"toiletType"`
	Timestamp   string `json:"timestamp"`
	Solved      bool   `json:"solved"`
}

type WashroomStat struct {
	Floor         string  `json:"floor"`
	ToiletType    string  `json:"toiletType"`
	TotalFeedback int     `json:"totalFeedback"`
	OverallRating float64 `json:"overallRating"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the reply of /login and /register.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ActionResult is the reply of /send-action-message.
type ActionResult struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"message_sid,omitempty"`
}
