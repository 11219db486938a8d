package models

// Day is a working-day code as used by the timetable API.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
)

// WeekDays is the fixed display order of day columns.
var WeekDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DefaultPeriodsPerDay matches the server default when settings are untouched.
const DefaultPeriodsPerDay = 8

// Teacher is a staff member who can be assigned to class subjects.
type Teacher struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name" validate:"required"`
	SubjectIDs        []string `json:"subjectIds"`
	ClassGroupIDs     []string `json:"classGroupIds"`
	MaxPeriodsPerWeek int      `json:"maxPeriodsPerWeek" validate:"min=0"`
}

// Subject is a taught discipline. ConsecutiveSize is only meaningful when
// RequiresConsecutive is set and is zeroed otherwise before submission.
type Subject struct {
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name" validate:"required"`
	Code                string `json:"code"`
	RoomType            string `json:"roomType"`
	RequiresConsecutive bool   `json:"requiresConsecutive"`
	ConsecutiveSize     int    `json:"consecutiveSize" validate:"min=0"`
}

// ClassGroup is a grade-level group split into ordered sections.
type ClassGroup struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name" validate:"required"`
	SectionIDs []string `json:"sectionIds"`
	SubjectIDs []string `json:"subjectIds"`
}

// LabRoom is a bookable laboratory.
type LabRoom struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"min=0"`
}

// ClassSubjectAssignment binds a subject and teacher to a class group with a
// weekly period quota.
type ClassSubjectAssignment struct {
	ID                  string `json:"id,omitempty"`
	ClassGroupID        string `json:"classGroupId" validate:"required"`
	SubjectID           string `json:"subjectId" validate:"required"`
	TeacherID           string `json:"teacherId" validate:"required"`
	PeriodsPerWeek      int    `json:"periodsPerWeek" validate:"min=1"`
	RoomType            string `json:"roomType"`
	RequiresConsecutive bool   `json:"requiresConsecutive"`
	ConsecutiveSize     int    `json:"consecutiveSize" validate:"min=0"`
}

// SchoolSettings mirrors the per-school generation settings.
type SchoolSettings struct {
	PeriodDuration        int    `json:"periodDuration" validate:"min=1"`
	PeriodsPerDay         int    `json:"periodsPerDay" validate:"min=1"`
	WorkingDays           int    `json:"workingDays" validate:"min=1,max=6"`
	MorningAssemblyPeriod int    `json:"morningAssemblyPeriod" validate:"min=0"`
	StartTime             string `json:"startTime"`
}

// ScheduleSlot is one scheduled occurrence produced by the server. The client
// never constructs or mutates slots, only projects them for display.
type ScheduleSlot struct {
	Day          Day    `json:"day,omitempty"`
	Period       int    `json:"period"`
	SubjectID    string `json:"subjectId"`
	TeacherID    string `json:"teacherId"`
	ClassGroupID string `json:"classGroupId,omitempty"`
	SectionID    string `json:"sectionId,omitempty"`
	LabRoomID    string `json:"labRoomId,omitempty"`
}

// Week is the sparse per-day slot listing as returned by the timetable API.
type Week map[Day][]ScheduleSlot

// Metadata maps entity ids to display names, scoped per school. It is used
// only for presentation; lookups fall back to the raw id.
type Metadata struct {
	Subjects map[string]string `json:"subjects"`
	Teachers map[string]string `json:"teachers"`
	Classes  map[string]string `json:"classes"`
}

// SubjectName resolves a subject id to its display name.
func (m Metadata) SubjectName(id string) string { return resolve(m.Subjects, id) }

// TeacherName resolves a teacher id to its display name.
func (m Metadata) TeacherName(id string) string { return resolve(m.Teachers, id) }

// ClassName resolves a class-group id to its display name.
func (m Metadata) ClassName(id string) string { return resolve(m.Classes, id) }

func resolve(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// RegisterSchoolRequest creates a school admin account.
type RegisterSchoolRequest struct {
	Name       string `json:"name" validate:"required"`
	SchoolCode string `json:"schoolCode" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
}

// AdminLoginRequest authenticates a school administrator.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TeacherLoginRequest authenticates a teacher by school code and teacher id.
type TeacherLoginRequest struct {
	SchoolCode string `json:"schoolCode" validate:"required"`
	TeacherID  string `json:"teacherId" validate:"required"`
}

// LoginResponse is the token issuance payload shared by both login flows.
type LoginResponse struct {
	Token     string `json:"token"`
	SchoolID  string `json:"schoolId"`
	TeacherID string `json:"teacherId,omitempty"`
}
