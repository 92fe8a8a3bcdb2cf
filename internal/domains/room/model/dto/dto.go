package dto

import (
	"lodge/internal/domains/room/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Number        string `json:"number"          validate:"required,max=10"`
	Name          string `json:"name"            validate:"required,max=100"`
	Category      string `json:"category"        validate:"required,oneof=standard deluxe suite executive"`
	PricePerNight int64  `json:"price_per_night" validate:"required,gt=0"`
	MaxOccupancy  int    `json:"max_occupancy"   validate:"required,min=1,max=20"`
	Active        *bool  `json:"active"          validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:            uuid.NewString(),
		Number:        c.Number,
		Name:          c.Name,
		Category:      c.Category,
		PricePerNight: c.PricePerNight,
		MaxOccupancy:  c.MaxOccupancy,
		Active:        active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name          string `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Category      string `db:"category"        json:"category"        validate:"omitempty,oneof=standard deluxe suite executive"`
	PricePerNight *int64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	MaxOccupancy  *int   `db:"max_occupancy"   json:"max_occupancy"   validate:"omitempty,min=1,max=20"`
	Active        *bool  `db:"active"          json:"active"          validate:"omitempty"`
}

type RoomResponse struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	PricePerNight int64  `json:"price_per_night"`
	MaxOccupancy  int    `json:"max_occupancy"`
	Active        bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Name = model.Name
	r.Category = model.Category
	r.PricePerNight = model.PricePerNight
	r.MaxOccupancy = model.MaxOccupancy
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
