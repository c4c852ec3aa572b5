package membership

type CreatedEvent struct {
	Result *Membership
}

type UpdatedEvent struct {
	Result *Membership
}

type DeletedEvent struct {
	Result *Membership
}

func NewCreatedEvent(result *Membership) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result *Membership) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(result *Membership) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
