package jobs

const TaskPrewarmLessons = "lessons:prewarm"

// PrewarmPayload identifies one scheduled warm-up of a lesson path.
type PrewarmPayload struct {
	JobID string `json:"job_id"`
	Path  string `json:"path"`
}
