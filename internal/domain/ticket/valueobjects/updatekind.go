package valueobjects

// UpdateKind classifies an entry in a ticket's update trail.
type UpdateKind string

const (
	UpdateCreated        UpdateKind = "CREATED"
	UpdateComment        UpdateKind = "COMMENT"
	UpdateAssignment     UpdateKind = "ASSIGNMENT"
	UpdateStatusChange   UpdateKind = "STATUS_CHANGE"
	UpdatePriorityChange UpdateKind = "PRIORITY_CHANGE"
	UpdateResolution     UpdateKind = "RESOLUTION"
)

func (k UpdateKind) String() string {
	return string(k)
}

func (k UpdateKind) IsValid() bool {
	switch k {
	case UpdateCreated, UpdateComment, UpdateAssignment, UpdateStatusChange, UpdatePriorityChange, UpdateResolution:
		return true
	}
	return false
}
