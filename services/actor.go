package services

import (
	"context"
	"errors"

	"github.com/sharpfade/barber-booking-api/models"
	"gorm.io/gorm"
)

// Actor is the authenticated caller a service acts on behalf of. A nil
// *Actor is an anonymous caller.
type Actor struct {
	ID    uint
	Email string
	Role  models.Role
}

// IsStaff reports whether the actor is a trusted dashboard role.
func (a *Actor) IsStaff() bool {
	return a != nil && a.Role.IsStaff()
}

// Is reports whether the actor holds role.
func (a *Actor) Is(role models.Role) bool {
	return a != nil && a.Role == role
}

func (a *Actor) roleOrSystem() models.Role {
	if a == nil {
		return models.RoleSystem
	}
	return a.Role
}

func (a *Actor) idPtr() *uint {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}

// barberForActor loads the barber profile owned by a BARBER actor.
func barberForActor(ctx context.Context, db *gorm.DB, actor *Actor) (*models.Barber, error) {
	if !actor.Is(models.RoleBarber) {
		return nil, Forbidden("Only barbers can perform this action")
	}
	var barber models.Barber
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", actor.ID).First(&barber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, withMessage(ErrBarberNotFound, "No barber profile for this account")
	}
	if err != nil {
		return nil, Internal("Failed to load barber profile", err)
	}
	return &barber, nil
}

func appendOrderEvent(ctx context.Context, tx *gorm.DB, orderID uint, field, from, to string, actor *Actor, note string) error {
	event := models.OrderEvent{
		OrderID:   orderID,
		Field:     field,
		From:      from,
		To:        to,
		ActorRole: actor.roleOrSystem(),
		ActorID:   actor.idPtr(),
		Note:      note,
	}
	if err := tx.WithContext(ctx).Create(&event).Error; err != nil {
		return Internal("Failed to record order event", err)
	}
	return nil
}
