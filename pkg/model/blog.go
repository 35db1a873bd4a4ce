package model

import "time"

type Blog struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Author      string    `json:"author" bson:"author" validate:"required,min=2,max=100"`
	Content     string    `json:"content" bson:"content" validate:"required,min=1"`
	PublishDate time.Time `json:"publish_date" bson:"publish_date"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type BlogUpdate struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Author      string     `json:"author,omitempty" validate:"omitempty,min=2,max=100"`
	Content     string     `json:"content,omitempty" validate:"omitempty,min=1"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
}
