package model

import "time"

type Doctor struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName       string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Age            int       `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Specialty      string    `json:"specialty,omitempty" bson:"specialty,omitempty" validate:"omitempty,max=100"`
	Contact        string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"omitempty,max=100"`
	Email          string    `json:"email" bson:"email" validate:"required,email"`
	Education      string    `json:"education,omitempty" bson:"education,omitempty" validate:"omitempty,max=500"`
	Experience     string    `json:"experience,omitempty" bson:"experience,omitempty" validate:"omitempty,max=500"`
	Certifications string    `json:"certifications,omitempty" bson:"certifications,omitempty" validate:"omitempty,max=500"`
	File           string    `json:"file,omitempty" bson:"file,omitempty" validate:"omitempty,max=300"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type DoctorUpdate struct {
	FullName       string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Age            *int   `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Specialty      string `json:"specialty,omitempty" validate:"omitempty,max=100"`
	Contact        string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Education      string `json:"education,omitempty" validate:"omitempty,max=500"`
	Experience     string `json:"experience,omitempty" validate:"omitempty,max=500"`
	Certifications string `json:"certifications,omitempty" validate:"omitempty,max=500"`
	File           string `json:"file,omitempty" validate:"omitempty,max=300"`
}
