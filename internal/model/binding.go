package model

import "time"

// Binding — привязка студента к куратору.
// Ticket — анонимный короткий идентификатор студента (например S1234),
// единственное, что видит куратор вместо имени/номера студента.
type Binding struct {
	StudentID int64     `json:"student_id"`
	CuratorID int64     `json:"curator_id"`
	Ticket    string    `json:"ticket"`
	LinkedAt  time.Time `json:"linked_at"`
}
