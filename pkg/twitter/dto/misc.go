package dto

import "time"

type TwitterListDTO struct {
	ID              int64     `json:"id"`
	IDStr           string    `json:"id_str"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	URI             string    `json:"uri"`
	Mode            string    `json:"mode"`
	MemberCount     int       `json:"member_count"`
	SubscriberCount int       `json:"subscriber_count"`
	Following       bool      `json:"following"`
	CreatedAt       time.Time `json:"created_at"`
	Owner           *UserDTO  `json:"user,omitempty"`
}

type SavedSearchDTO struct {
	ID        int64     `json:"id"`
	IDStr     string    `json:"id_str"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorDTO struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorsDTO is the body of a failed request.
type ErrorsDTO struct {
	Errors []ErrorDTO `json:"errors"`
}
