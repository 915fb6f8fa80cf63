package models

type StudyPlan struct {
	ID         ID          `json:"id"`
	Title      string      `json:"title"`
	Subjects   []string    `json:"subjects"`
	Progress   int         `json:"progress"`
	StartDate  Timestamp   `json:"start_date"`
	EndDate    Timestamp   `json:"end_date"`
	Milestones []Milestone `json:"milestones,omitempty"`
}

type Milestone struct {
	Name      string    `json:"name"`
	Start     Timestamp `json:"start"`
	End       Timestamp `json:"end"`
	Completed bool      `json:"completed"`
}
