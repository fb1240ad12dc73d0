package model

import "time"

// Student is a portal user who takes exams.
type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"roll_number"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentLoginRequest is the payload for student login.
type StudentLoginRequest struct {
	RollNumber string `json:"roll_number" binding:"required,min=3,max=30"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	RollNumber string `json:"roll_number" binding:"required,min=3,max=30"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
}
