package models

type User struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// Dashboard is the aggregate the backend returns from /tasks/dashboard/.
type Dashboard struct {
	NotesCount      int         `json:"notes_count"`
	TasksNextMonth  []Task      `json:"tasks_next_month"`
	EventsNextMonth []Event     `json:"events_next_month"`
	StudyPlans      []StudyPlan `json:"study_plans"`
}
