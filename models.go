package main

import "strconv"

// --- Categories ---

type Category struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Type string `gorm:"not null" json:"type"`
}

// --- Questions ---

// CategoryID is a bare id with no association field, so no foreign key is created.
type Question struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Text       string `gorm:"column:question;not null" json:"question"`
	Answer     string `gorm:"not null" json:"answer"`
	CategoryID int    `gorm:"column:category;index;not null" json:"category"`
	Difficulty int    `gorm:"not null" json:"difficulty"`
}

/*** DTOs ***/

type QuestionDTO struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

func (q Question) DTO() QuestionDTO {
	return QuestionDTO{
		ID:         q.ID,
		Question:   q.Text,
		Answer:     q.Answer,
		Category:   q.CategoryID,
		Difficulty: q.Difficulty,
	}
}

func questionDTOs(qs []Question) []QuestionDTO {
	out := make([]QuestionDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.DTO())
	}
	return out
}

// categoryMap renders categories the way the frontend expects: {"1": "Science", ...}.
func categoryMap(cs []Category) map[string]string {
	m := make(map[string]string, len(cs))
	for _, c := range cs {
		m[strconv.Itoa(c.ID)] = c.Type
	}
	return m
}
