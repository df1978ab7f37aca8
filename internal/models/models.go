package models

import "time"

// Material is the source text a deck of cards is generated from.
type Material struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MaterialInput struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}
