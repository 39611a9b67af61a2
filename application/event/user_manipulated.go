package event

import (
	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/domain/entity"
)

// UserManipulated is raised after a user has been created, updated or deleted.
//
// User holds the state after the mutation, except for deletes where it is the
// state captured before the row was removed. Original is only set for updates.
// Actor is the authenticated caller, nil for anonymous registration.
type UserManipulated struct {
	User     entity.UserSnapshot
	Original *entity.UserSnapshot
	Action   entity.Action
	Actor    *inbound.Principal
}

func UserCreated(user entity.UserSnapshot, actor *inbound.Principal) UserManipulated {
	return UserManipulated{User: user, Action: entity.ActionCreate, Actor: actor}
}

func UserUpdated(user, original entity.UserSnapshot, actor *inbound.Principal) UserManipulated {
	return UserManipulated{User: user, Original: &original, Action: entity.ActionUpdate, Actor: actor}
}

func UserDeleted(user entity.UserSnapshot, actor *inbound.Principal) UserManipulated {
	return UserManipulated{User: user, Action: entity.ActionDelete, Actor: actor}
}
