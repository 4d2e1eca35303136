package session

import "time"

// Session is one scheduled class instance.
type Session struct {
	ID           int       `db:"id" json:"id"`
	CourseID     *int      `db:"course_id" json:"course_id,omitempty"`
	InstructorID *int      `db:"instructor_id" json:"instructor_id,omitempty"`
	RoomID       *int      `db:"room_id" json:"room_id,omitempty"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	Capacity     int       `db:"capacity" json:"capacity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
