package subscription

type CreatedEvent struct {
	Result *Subscription
}

type UpdatedEvent struct {
	Result *Subscription
}

type DeletedEvent struct {
	Result *Subscription
}

func NewCreatedEvent(result *Subscription) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result *Subscription) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(result *Subscription) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
