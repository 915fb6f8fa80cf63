package models

type Note struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Summary   string    `json:"summary"`
	CreatedAt Timestamp `json:"created_at"`
}
