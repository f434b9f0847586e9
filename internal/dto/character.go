package dto

import "time"

// CreateCharacterRequest is the JSON body for POST /characters.
type CreateCharacterRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=40"`
	Class string `json:"class" binding:"max=40"`
}

type CharacterResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCharactersResponse struct {
	Items []CharacterResponse `json:"items"`
}
