package models

import "time"

// DocumentDTO is the JSON wire shape of a document on the remote service.
// Timestamps travel as ISO-8601 strings via time.Time's RFC 3339 encoding.
type DocumentDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToDTO maps a local document onto its wire shape. Sync state and retry
// counters never leave the client.
func (d *Document) ToDTO() DocumentDTO {
	return DocumentDTO{
		ID:         d.ID,
		Name:       d.Name,
		IsFavorite: d.IsFavorite,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

// FromDTO maps a wire document into a local record with the given state.
func FromDTO(dto DocumentDTO, state SyncState) *Document {
	return &Document{
		ID:         dto.ID,
		Name:       dto.Name,
		IsFavorite: dto.IsFavorite,
		CreatedAt:  dto.CreatedAt.UTC(),
		UpdatedAt:  dto.UpdatedAt.UTC(),
		SyncState:  state,
	}
}
