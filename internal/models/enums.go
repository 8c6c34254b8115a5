package models

type (
	Subject            string
	DeliveryType       string
	RequestStatus      string
	ConversationStatus string
)

const (
	SubjectMathematics     Subject = "Mathematics"
	SubjectPhysics         Subject = "Physics"
	SubjectChemistry       Subject = "Chemistry"
	SubjectBiology         Subject = "Biology"
	SubjectComputerScience Subject = "Computer Science"
	SubjectEnglish         Subject = "English"
	SubjectHistory         Subject = "History"
	SubjectPsychology      Subject = "Psychology"
	SubjectEconomics       Subject = "Economics"
	SubjectEngineering     Subject = "Engineering"
)

const (
	DeliveryText   DeliveryType = "Text"
	DeliveryAudio  DeliveryType = "Audio"
	DeliveryScreen DeliveryType = "Screen"
)

const (
	StatusOpen       RequestStatus = "open"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
)

const (
	ConversationActive    ConversationStatus = "active"
	ConversationCompleted ConversationStatus = "completed"
)

// Subjects lists the fixed subject taxonomy in display order
var Subjects = []Subject{
	SubjectMathematics, SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectComputerScience,
	SubjectEnglish, SubjectHistory, SubjectPsychology, SubjectEconomics, SubjectEngineering,
}

func ValidSubject(s Subject) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

func ValidDeliveryType(t DeliveryType) bool {
	switch t {
	case DeliveryText, DeliveryAudio, DeliveryScreen:
		return true
	default:
		return false
	}
}

func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ConversationStatusFor mirrors a request status onto its conversation
func ConversationStatusFor(s RequestStatus) ConversationStatus {
	if s == StatusCompleted {
		return ConversationCompleted
	}
	return ConversationActive
}
