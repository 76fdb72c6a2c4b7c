package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AllocateReviewersRequest struct {
	ExpectedGeneration *int64 `json:"expected_generation,omitempty"`
}

type BulkAssignmentItem struct {
	AssignmentID string `json:"assignment_id"`
	ReviewerID   string `json:"reviewer_id"`
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Generation   int64  `json:"generation"`
}

type ReviewerLoadItem struct {
	ReviewerID string `json:"reviewer_id"`
	Count      int    `json:"count"`
}

type GenerationResponse struct {
	EventID     string `json:"event_id"`
	Kind        string `json:"kind"`
	Number      int64  `json:"number"`
	RecordCount int    `json:"record_count"`
	ReplacedBy  string `json:"replaced_by,omitempty"`
	ReplacedAt  string `json:"replaced_at,omitempty"`
}

type AllocateReviewersResponse struct {
	EventID     string               `json:"event_id"`
	Assignments []BulkAssignmentItem `json:"assignments"`
	Loads       []ReviewerLoadItem   `json:"loads"`
	Discarded   int                  `json:"discarded"`
	Generation  GenerationResponse   `json:"generation"`
}

type ReviewerWorkloadItem struct {
	ReviewerID  string `json:"reviewer_id"`
	BulkCount   int    `json:"bulk_count"`
	ManualCount int    `json:"manual_count"`
}

type ReviewerWorkloadResponse struct {
	EventID string                 `json:"event_id"`
	Items   []ReviewerWorkloadItem `json:"items"`
}

type ManualAssignmentRequest struct {
	ReviewerID string `json:"reviewer_id"`
}

type ManualAssignmentResponse struct {
	AssignmentID       string `json:"assignment_id"`
	SubmissionID       string `json:"submission_id"`
	ReviewerID         string `json:"reviewer_id"`
	AssignedBy         string `json:"assigned_by"`
	Status             string `json:"status"`
	AssignedAt         string `json:"assigned_at"`
	PreviousReviewerID string `json:"previous_reviewer_id,omitempty"`
	Created            bool   `json:"created"`
}

type GenerateProgramRequest struct {
	ExpectedGeneration *int64 `json:"expected_generation,omitempty"`
}

type SessionItem struct {
	SessionID     string   `json:"session_id"`
	EventID       string   `json:"event_id"`
	Title         string   `json:"title"`
	TopicID       string   `json:"topic_id,omitempty"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Location      string   `json:"location,omitempty"`
	Kind          string   `json:"kind"`
	SubmissionIDs []string `json:"submission_ids"`
	OrderIndex    int      `json:"order_index"`
}

type GenerateProgramResponse struct {
	EventID     string             `json:"event_id"`
	Sessions    []SessionItem      `json:"sessions"`
	Unscheduled []string           `json:"unscheduled_submission_ids"`
	Discarded   int                `json:"discarded"`
	Generation  GenerationResponse `json:"generation"`
}

type SessionListResponse struct {
	EventID string        `json:"event_id"`
	Items   []SessionItem `json:"items"`
}

type CreateSessionRequest struct {
	Title         string   `json:"title"`
	TopicID       string   `json:"topic_id,omitempty"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Location      string   `json:"location,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	SubmissionIDs []string `json:"submission_ids,omitempty"`
}

type ScheduleWarningItem struct {
	Code       string `json:"code"`
	Severity   string `json:"severity"`
	SessionAID string `json:"session_a_id"`
	SessionBID string `json:"session_b_id"`
	Message    string `json:"message"`
}

type SaveAgendaRequest struct {
	SessionIDs []string `json:"session_ids"`
}

type AgendaResponse struct {
	AttendeeID string                `json:"attendee_id"`
	EventID    string                `json:"event_id"`
	SessionIDs []string              `json:"session_ids"`
	Sessions   []SessionItem         `json:"sessions,omitempty"`
	Warnings   []ScheduleWarningItem `json:"warnings"`
}

type CheckConflictRequest struct {
	SessionID string `json:"session_id"`
}

type CheckConflictResponse struct {
	SessionID string                `json:"session_id"`
	Conflicts bool                  `json:"conflicts"`
	Warnings  []ScheduleWarningItem `json:"warnings"`
}

type GenerationInspectResponse struct {
	Generation       GenerationResponse `json:"generation"`
	RecordsToDiscard int                `json:"records_to_discard"`
	NextGeneration   int64              `json:"next_generation"`
}
