package model

// EducationType separates school students from college students.
type EducationType string

const (
	EducationSchool  EducationType = "school"
	EducationCollege EducationType = "college"
)

// StudentProfile decides which academic tests apply to a student.
type StudentProfile struct {
	EducationType EducationType `json:"education_type"`
	Class         string        `json:"class"`
	Stream        string        `json:"stream"`
	Course        string        `json:"course"`
}

// UpdateProfileRequest is the payload for storing a student's profile.
type UpdateProfileRequest struct {
	EducationType EducationType `json:"education_type" binding:"required,oneof=school college"`
	Class         string        `json:"class" binding:"omitempty,max=10"`
	Stream        string        `json:"stream" binding:"omitempty,oneof=Science Commerce Arts"`
	Course        string        `json:"course" binding:"omitempty,max=50"`
}

// Profile converts the request into a StudentProfile.
func (r UpdateProfileRequest) Profile() StudentProfile {
	return StudentProfile{
		EducationType: r.EducationType,
		Class:         r.Class,
		Stream:        r.Stream,
		Course:        r.Course,
	}
}
